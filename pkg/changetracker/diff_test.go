package changetracker

import (
	"strings"
	"testing"
)

func TestGetDiffIdenticalContentIsEmpty(t *testing.T) {
	if d := GetDiff("a.js", "same\n", "same\n"); d != "" {
		t.Errorf("diff of identical content = %q, want empty", d)
	}
}

func TestGetDiffMarksChanges(t *testing.T) {
	before := "line one\nline two\nline three\n"
	after := "line one\nline 2\nline three\n"
	d := GetDiff("a.js", before, after)
	if !strings.Contains(d, "a.js") {
		t.Errorf("stats header missing filename:\n%s", d)
	}
	if !strings.Contains(d, "- line two") {
		t.Errorf("deletion not marked:\n%s", d)
	}
	if !strings.Contains(d, "+ line 2") {
		t.Errorf("insertion not marked:\n%s", d)
	}
}

func TestGetDiffElidesLargeUnchangedRegions(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("unchanged\n")
	}
	before := "first\n" + b.String() + "last\n"
	after := "FIRST\n" + b.String() + "last\n"
	d := GetDiff("a.js", before, after)
	if !strings.Contains(d, "unchanged lines") {
		t.Errorf("large unchanged region not elided:\n%s", d)
	}
	if strings.Count(d, "unchanged\n") > 10 {
		t.Errorf("too many context lines survived:\n%s", d)
	}
}

func TestRecordAndLoadChanges(t *testing.T) {
	dir := t.TempDir()
	rec := ChangeRecord{
		RequestHash: "abc",
		Filename:    "src/app.js",
		Before:      "old",
		After:       "new",
		Description: "update app",
	}
	if err := RecordChange(dir, rec); err != nil {
		t.Fatalf("RecordChange: %v", err)
	}
	if err := RecordChange(dir, rec); err != nil {
		t.Fatalf("RecordChange (second): %v", err)
	}

	records, err := LoadChanges(dir)
	if err != nil {
		t.Fatalf("LoadChanges: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Filename != "src/app.js" || records[0].Timestamp.IsZero() {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestLoadChangesMissingLogIsEmpty(t *testing.T) {
	records, err := LoadChanges(t.TempDir())
	if err != nil {
		t.Fatalf("LoadChanges: %v", err)
	}
	if records != nil {
		t.Errorf("got %v, want nil", records)
	}
}
