// Package prompt derives the request-only instruction text sent to the
// model. The stored system turn is never rewritten; enhancements are applied
// at request-build time only.
package prompt

import "strings"

// Enhancements are the user-facing response-shaping toggles.
type Enhancements struct {
	Steps      bool `json:"steps"`
	Exercises  bool `json:"exercises"`
	Tables     bool `json:"tables"`
	References bool `json:"references"`
}

// Directive suffixes appended to the coach instruction, in the fixed order
// steps, exercises, tables, references.
const (
	stepsDirective      = " Structure your answer as clear, numbered step-by-step guidance."
	exercisesDirective  = " End with a short practice exercise or quiz the learner can try."
	tablesDirective     = " When comparing options or listing attributes, use a markdown table."
	referencesDirective = " Mention one or two artists, books, or resources worth studying."
)

// Any reports whether at least one toggle is enabled.
func (e Enhancements) Any() bool {
	return e.Steps || e.Exercises || e.Tables || e.References
}

// Apply returns the instruction with the directive for each enabled toggle
// appended. With no toggles enabled the instruction passes through verbatim.
func (e Enhancements) Apply(instruction string) string {
	if !e.Any() {
		return instruction
	}

	var b strings.Builder
	b.WriteString(instruction)
	if e.Steps {
		b.WriteString(stepsDirective)
	}
	if e.Exercises {
		b.WriteString(exercisesDirective)
	}
	if e.Tables {
		b.WriteString(tablesDirective)
	}
	if e.References {
		b.WriteString(referencesDirective)
	}
	return b.String()
}
