package model

import "strings"

// Claim represents a single fact-checkable assertion extracted from a query
type Claim struct {
	Text      string `json:"text"`                // The claim text itself
	Optimized string `json:"optimized,omitempty"` // Self-contained rewrite (advisory unless enabled)
}

// Label is the verifier's binary verdict
type Label string

const (
	LabelTrue  Label = "True"
	LabelFalse Label = "False"
)

// ParseLabel maps a model-provided label onto True/False.
// Anything that is not "true" (case-insensitive) is False.
func ParseLabel(s string) Label {
	if strings.EqualFold(strings.TrimSpace(s), "true") {
		return LabelTrue
	}
	return LabelFalse
}

// Outcome separates a genuine refutation from an unparseable response
type Outcome string

const (
	OutcomeSupported     Outcome = "supported"
	OutcomeRefuted       Outcome = "refuted"
	OutcomeIndeterminate Outcome = "indeterminate"
)

// Verdict is the verifier output for one claim
type Verdict struct {
	Label    Label  `json:"label"`
	Evidence string `json:"evidence"`
	Parsed   bool   `json:"parsed"`   // false when the model did not return valid JSON
	Grounded bool   `json:"grounded"` // evidence found verbatim in the document (advisory)
}

// Outcome returns the tri-state reading of the verdict
func (v Verdict) Outcome() Outcome {
	switch {
	case !v.Parsed:
		return OutcomeIndeterminate
	case v.Label == LabelTrue:
		return OutcomeSupported
	default:
		return OutcomeRefuted
	}
}
