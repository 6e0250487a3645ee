package plan

// StepType represents the kind of operation a plan step performs.
type StepType string

const (
	StepCreateFile StepType = "create_file"
	StepEditFile   StepType = "edit_file"
	StepInsertCode StepType = "insert_code"
	StepRunCommand StepType = "run_command"
	StepAnalyze    StepType = "analyze"
)

// Step is one executable unit derived from a plan document. Steps are
// immutable during an execution pass; verification retries synthesize fresh
// step sets rather than mutating previous ones.
type Step struct {
	ID          int      `json:"id"`          // sequence number, order = execution order
	Type        StepType `json:"type"`        //
	Target      string   `json:"target"`      // file path, or literal command for run_command
	Description string   `json:"description"` // free text; the insertion locator mines it for placement hints
	CodeBlock   string   `json:"code_block,omitempty"`
}

// Format records which extraction pattern matched a plan document.
// Diagnostics only; execution does not branch on it.
type Format string

const (
	FormatTeddySpec     Format = "teddy_spec"
	FormatNumberedSteps Format = "numbered_steps"
	FormatSimple        Format = "simple"
	FormatNone          Format = "none"
)

// Detection is the plan detector's output.
type Detection struct {
	IsPlanDocument bool
	Steps          []Step
	Format         Format
}
