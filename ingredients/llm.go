package ingredients

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"
)

// DefaultInstruction is sent with every label to the structured-extraction service.
const DefaultInstruction = `I have a raw ingredients string describing groups of ingredients with their percentage amounts and nested sub-ingredients. The format typically looks like this:

"GROUP_NAME PERCENT % (sub-ingredient1, sub-ingredient2, sub-ingredient3 (nested sub-ingredients), ...), NEXT_GROUP PERCENT % (...), ..."

Parse this string and output a JSON array of objects. Each object must contain exactly these keys:

- "group": the name of the ingredient group (the text before the percentage).
- "percent": the numeric percentage of that group.
- "sub": an array of the immediate sub-ingredients of that group. A sub-ingredient with its own parentheses is one entry holding only its main name, without the nested details.

Normalize sub-ingredient names by making them lowercase, dropping parenthesized details and removing duplicates.

Return only valid JSON, without any description or other content.`

// JSONGenerator sends an instruction and an input text to a structured
// extraction service and returns the raw JSON body of its answer.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, instruction, input string) (string, error)
}

// LLMExtractor delegates label parsing to an external service. Results are
// validated against the group schema; any deviation is an error.
type LLMExtractor struct {
	Generator   JSONGenerator
	Instruction string
	// Timeout bounds a single call when positive.
	Timeout time.Duration
	// RepairJSON lets syntactically broken bodies through jsonrepair before
	// schema validation.
	RepairJSON bool
}

type llmGroup struct {
	Group   *string   `json:"group"`
	Percent *float64  `json:"percent"`
	Sub     *[]string `json:"sub"`
}

func (e *LLMExtractor) Extract(ctx context.Context, label string) (Record, error) {
	if strings.TrimSpace(label) == "" {
		return Record{}, nil
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	instruction := e.Instruction
	if instruction == "" {
		instruction = DefaultInstruction
	}

	body, err := e.Generator.GenerateJSON(ctx, instruction, label)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalExtraction, err)
	}

	groups, err := e.decode(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalExtraction, err)
	}
	return Assemble(groups), nil
}

func (e *LLMExtractor) decode(body string) ([]Group, error) {
	body = stripCodeFence(body)
	if body == "" {
		return nil, fmt.Errorf("empty response")
	}

	if e.RepairJSON && !json.Valid([]byte(body)) {
		repaired, err := jsonrepair.JSONRepair(body)
		if err != nil {
			return nil, fmt.Errorf("failed to repair response: %w", err)
		}
		body = repaired
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var raw []llmGroup
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("response does not match the group schema: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected content after the group array")
	}
	if raw == nil {
		return nil, fmt.Errorf("response is not a group array")
	}

	groups := make([]Group, 0, len(raw))
	for i, r := range raw {
		switch {
		case r.Group == nil || strings.TrimSpace(*r.Group) == "":
			return nil, fmt.Errorf("entry %d: missing group", i)
		case r.Percent == nil:
			return nil, fmt.Errorf("entry %d: missing percent", i)
		case *r.Percent < 0 || *r.Percent > 100:
			return nil, fmt.Errorf("entry %d: percent %v is outside 0-100", i, *r.Percent)
		case r.Sub == nil:
			return nil, fmt.Errorf("entry %d: missing sub", i)
		}
		groups = append(groups, Group{
			Name:    strings.TrimSpace(*r.Group),
			Percent: *r.Percent,
			Sub:     NormalizeAll(*r.Sub),
		})
	}
	return groups, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(body string) string {
	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
