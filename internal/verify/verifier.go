// Package verify asks the model whether a document supports a claim.
package verify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ppiankov/claimcheck/internal/llm"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/validate"
)

// Verifier labels a claim True or False against a document and returns a
// verbatim supporting excerpt
type Verifier struct {
	provider llm.Provider
	model    string
	maxChars int
}

// NewVerifier creates a verifier. maxChars caps the document sent to the
// model; 0 sends it whole.
func NewVerifier(provider llm.Provider, model string, maxChars int) *Verifier {
	return &Verifier{
		provider: provider,
		model:    model,
		maxChars: maxChars,
	}
}

// Verify returns the model's verdict. A failed call or empty answer is an
// error; an answer that is not JSON becomes an unparsed False verdict
// carrying the raw text as evidence.
func (v *Verifier) Verify(ctx context.Context, document, claim string) (model.Verdict, error) {
	content := document
	if v.maxChars > 0 {
		content = SelectRelevant(claim, document, v.maxChars)
	}

	text, err := llm.Text(ctx, v.provider, v.model, llm.FactCheckPrompt(claim, content))
	if err != nil {
		return model.Verdict{}, fmt.Errorf("verify claim: %w", err)
	}

	verdict := ParseVerdict(text)
	if verdict.Parsed {
		verdict.Grounded = validate.EvidenceInDocument(verdict.Evidence, document)
	}
	return verdict, nil
}

// ParseVerdict decodes {"label": ..., "evidence": ...}. A missing label
// reads as False and a missing evidence field as the raw text.
func ParseVerdict(raw string) model.Verdict {
	fields, ok := decodeObject(llm.StripCodeFence(raw))
	if !ok {
		return model.Verdict{Label: model.LabelFalse, Evidence: raw}
	}

	verdict := model.Verdict{
		Label:    model.LabelFalse,
		Evidence: raw,
		Parsed:   true,
	}

	switch label := fields["label"].(type) {
	case string:
		verdict.Label = model.ParseLabel(label)
	case bool:
		if label {
			verdict.Label = model.LabelTrue
		}
	}

	if evidence, present := fields["evidence"]; present {
		switch e := evidence.(type) {
		case string:
			verdict.Evidence = e
		case nil:
			verdict.Evidence = ""
		default:
			verdict.Evidence = fmt.Sprint(e)
		}
	}

	return verdict
}

// decodeObject is strict: a JSON object embedded in prose is not a verdict
func decodeObject(s string) (map[string]any, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}
