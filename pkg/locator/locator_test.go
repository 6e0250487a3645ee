package locator

import (
	"strings"
	"testing"
)

const jsFile = `import fs from 'fs';
import path from 'path';

function readConfig() {
  return fs.readFileSync('config.json');
}

function main() {
  readConfig();
}
`

func TestInsertAtTop(t *testing.T) {
	r := Insert(jsFile, "Add this at the top of the file", "'use strict';")
	if r.Strategy != "top" {
		t.Fatalf("strategy = %q, want top", r.Strategy)
	}
	if !strings.HasPrefix(r.Content, "'use strict';\n") {
		t.Errorf("code not at top:\n%s", r.Content)
	}
}

func TestInsertAfterImports(t *testing.T) {
	r := Insert(jsFile, "Add the constant after the imports", "const VERSION = 2;")
	if r.Strategy != "after-imports" {
		t.Fatalf("strategy = %q, want after-imports", r.Strategy)
	}
	lines := strings.Split(r.Content, "\n")
	idx := -1
	for i, l := range lines {
		if l == "const VERSION = 2;" {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.Fatalf("code not found in result:\n%s", r.Content)
	}
	for _, l := range lines[:idx] {
		if strings.TrimSpace(l) != "" && !strings.HasPrefix(l, "import") {
			t.Errorf("non-import line %q before inserted code", l)
		}
	}
	for _, l := range lines[idx+1:] {
		if strings.HasPrefix(l, "import") {
			t.Errorf("import line %q after inserted code", l)
		}
	}
}

func TestInsertAfterImportsFallsBackToTop(t *testing.T) {
	content := "function run() {\n  return 1;\n}\n"
	code := "const VERSION = 2;"
	r := Insert(content, "Add this after the imports", code)
	if !strings.Contains(r.Strategy, "top") {
		t.Fatalf("strategy = %q, want a top fallback", r.Strategy)
	}
	first := strings.SplitN(r.Content, "\n", 2)[0]
	if first != code {
		t.Errorf("first line = %q, want the inserted code", first)
	}
}

func TestInsertAfterImportsIgnoresImportsInsideFunctions(t *testing.T) {
	content := `function lazy() {
  return import('./heavy.js');
}
`
	code := "const V = 1;"
	r := Insert(content, "Add this after the imports", code)
	if r.Strategy != "top (no imports found)" {
		t.Fatalf("strategy = %q, want the prepend fallback", r.Strategy)
	}
	if !strings.HasPrefix(r.Content, code) {
		t.Errorf("code not prepended:\n%s", r.Content)
	}
	if !strings.Contains(r.Content, "function lazy() {\n  return import('./heavy.js');\n}") {
		t.Errorf("function body was modified:\n%s", r.Content)
	}
}

func TestInsertAfterImportsAllowsLeadingComments(t *testing.T) {
	content := "// entry point\nimport fs from 'fs';\n\nrun();\n"
	r := Insert(content, "Add this after the imports", "const V = 1;")
	if r.Strategy != "after-imports" {
		t.Fatalf("strategy = %q, want after-imports", r.Strategy)
	}
	if strings.Index(r.Content, "const V = 1;") < strings.Index(r.Content, "import fs") {
		t.Errorf("code not placed after the import block:\n%s", r.Content)
	}
	if strings.Index(r.Content, "const V = 1;") > strings.Index(r.Content, "run();") {
		t.Errorf("code landed below the first code line:\n%s", r.Content)
	}
}

func TestInsertAtLine(t *testing.T) {
	r := Insert("one\ntwo\nthree", "Insert this around line 2", "NEW")
	lines := strings.Split(r.Content, "\n")
	want := []string{"one", "NEW", "two", "three"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), r.Content)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestInsertAtLineClamped(t *testing.T) {
	r := Insert("one\ntwo", "Insert at line 99", "NEW")
	if !strings.HasSuffix(r.Content, "NEW") {
		t.Errorf("out-of-range line not clamped to end:\n%s", r.Content)
	}
}

func TestInsertInFunction(t *testing.T) {
	r := Insert(jsFile, "Add a cache check in readConfig", "  if (cached) return cached;")
	if r.Strategy != "in function readConfig" {
		t.Fatalf("strategy = %q", r.Strategy)
	}
	pos := strings.Index(r.Content, "if (cached)")
	openBrace := strings.Index(r.Content, "function readConfig() {")
	if pos < 0 || openBrace < 0 || pos < openBrace {
		t.Errorf("code not inside readConfig:\n%s", r.Content)
	}
	if pos > strings.Index(r.Content, "fs.readFileSync") {
		t.Errorf("code not at the start of the function body:\n%s", r.Content)
	}
}

func TestInsertAfterSymbolKeepsBracesBalanced(t *testing.T) {
	content := `class Store {
  get(key) {
    if (key) {
      return this.data[key];
    }
  }
}

const store = new Store();
`
	code := "function helper() {\n  return 1;\n}"
	r := Insert(content, "Add the helper after the Store class", code)
	if r.Strategy != "after Store" {
		t.Fatalf("strategy = %q", r.Strategy)
	}
	if strings.Count(r.Content, "{") != strings.Count(r.Content, "}") {
		t.Errorf("braces unbalanced:\n%s", r.Content)
	}
	classEnd := strings.Index(r.Content, "\n}\n")
	helperPos := strings.Index(r.Content, "function helper")
	tailPos := strings.Index(r.Content, "const store")
	if helperPos < classEnd || helperPos > tailPos {
		t.Errorf("helper not between the class and the tail code:\n%s", r.Content)
	}
}

func TestInsertDefaultsToAppend(t *testing.T) {
	r := Insert("const a = 1;\n", "Provide a helper", "const b = 2;")
	if r.Strategy != "append" {
		t.Fatalf("strategy = %q, want append", r.Strategy)
	}
	if !strings.HasSuffix(r.Content, "const b = 2;\n") {
		t.Errorf("code not appended:\n%s", r.Content)
	}
}

func TestInsertUnknownSymbolFallsBackToAppend(t *testing.T) {
	r := Insert("const a = 1;\n", "Add this after the frobnicate function", "const b = 2;")
	if !strings.Contains(r.Strategy, "append") {
		t.Fatalf("strategy = %q, want an append fallback", r.Strategy)
	}
	if !strings.Contains(r.Content, "const b = 2;") {
		t.Errorf("code missing from result:\n%s", r.Content)
	}
}
