package verify

// FileSnapshot captures one target file's state around one execution
// attempt. Snapshots are taken fresh each attempt and never merged across
// attempts.
type FileSnapshot struct {
	Target        string
	BeforeContent string // empty string when the file did not exist
	AfterContent  string // empty string when still absent
}

// CriterionResult is one criterion's outcome for one attempt.
type CriterionResult struct {
	Name        string
	Passed      bool
	Explanation string
}

// Result is one verification attempt's outcome.
type Result struct {
	Passed          bool
	CriteriaResults []CriterionResult
	Suggestions     []string
}

// FailingNames returns the names of criteria that did not pass.
func (r Result) FailingNames() []string {
	var out []string
	for _, cr := range r.CriteriaResults {
		if !cr.Passed {
			out = append(out, cr.Name)
		}
	}
	return out
}

// Criterion is a named, independently checkable predicate over snapshot
// state. The criteria set is derived once per task and re-checked unchanged
// on every retry.
type Criterion struct {
	Name        string
	Description string
	Check       func(snapshots []FileSnapshot) (bool, string)
}

// Evaluate runs every criterion against the attempt's snapshots.
func Evaluate(criteria []Criterion, snapshots []FileSnapshot) Result {
	result := Result{Passed: true}
	for _, c := range criteria {
		passed, explanation := c.Check(snapshots)
		if explanation == "" {
			explanation = c.Description
		}
		result.CriteriaResults = append(result.CriteriaResults, CriterionResult{
			Name:        c.Name,
			Passed:      passed,
			Explanation: explanation,
		})
		if !passed {
			result.Passed = false
			result.Suggestions = append(result.Suggestions, explanation)
		}
	}
	return result
}
