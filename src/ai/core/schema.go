package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Malathy01/LifecodeAI/src/types"
)

// BuildPrompt produces the structured instruction sent to every provider.
// The bracket syntax for glossary markers is part of the contract with the
// verdict renderer, so changes here must stay in sync with it.
func BuildPrompt(claim string) string {
	return fmt.Sprintf(`Analyze the following medical claim: %q

Roles:
1. Verify if the claim is scientifically accurate.
2. Extract and define complex medical terminology mentioned.
3. Provide a confidence score (0-100).
4. List 2-3 related medical ingredients or claims that could educate the user further.
5. Count supporting studies found via search.

Rules for terminology: Wrap complex terms in the summary like this: [Term: Definition].

Return the response strictly in the following JSON format.`, claim)
}

// RequiredFields lists the field names every provider response must carry.
var RequiredFields = []string{
	"status", "summary", "confidenceScore", "evidenceCount",
	"sources", "definitions", "relatedClaims",
}

// verdictPayload mirrors the output schema declared to the provider.
// Every field is a pointer so an absent field is distinguishable from a
// zero value or an empty list.
type verdictPayload struct {
	Status          *string             `json:"status"`
	Summary         *string             `json:"summary"`
	ConfidenceScore *float64            `json:"confidenceScore"`
	EvidenceCount   *float64            `json:"evidenceCount"`
	Sources         *[]types.Source     `json:"sources"`
	Definitions     *[]types.Definition `json:"definitions"`
	RelatedClaims   *[]string           `json:"relatedClaims"`
}

// ParseVerdict validates the provider's structured output and converts it
// into the verdict contract, attaching the original claim text so
// downstream consumers never track it separately.
func ParseVerdict(raw []byte, claim string) (*types.Verdict, error) {
	var payload verdictPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, SchemaError(fmt.Errorf("malformed provider output: %w", err))
	}

	switch {
	case payload.Status == nil:
		return nil, SchemaError(fmt.Errorf("missing required field status"))
	case payload.Summary == nil:
		return nil, SchemaError(fmt.Errorf("missing required field summary"))
	case payload.ConfidenceScore == nil:
		return nil, SchemaError(fmt.Errorf("missing required field confidenceScore"))
	case payload.EvidenceCount == nil:
		return nil, SchemaError(fmt.Errorf("missing required field evidenceCount"))
	case payload.Sources == nil:
		return nil, SchemaError(fmt.Errorf("missing required field sources"))
	case payload.Definitions == nil:
		return nil, SchemaError(fmt.Errorf("missing required field definitions"))
	case payload.RelatedClaims == nil:
		return nil, SchemaError(fmt.Errorf("missing required field relatedClaims"))
	}

	status := types.VerdictStatus(*payload.Status)
	if !status.Valid() {
		return nil, SchemaError(fmt.Errorf("unknown verdict status %q", *payload.Status))
	}

	return &types.Verdict{
		Claim:           claim,
		Summary:         *payload.Summary,
		ConfidenceScore: *payload.ConfidenceScore,
		Status:          status,
		EvidenceCount:   int(*payload.EvidenceCount),
		Sources:         *payload.Sources,
		Definitions:     *payload.Definitions,
		RelatedClaims:   *payload.RelatedClaims,
		AnalyzedAt:      time.Now().UTC(),
	}, nil
}
