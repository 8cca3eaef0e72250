package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// IngredientGroupsSchema constrains Gemini answers to [{group, percent, sub}].
var IngredientGroupsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"group":   {Type: genai.TypeString},
			"percent": {Type: genai.TypeNumber},
			"sub": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"group", "percent", "sub"},
	},
}

// GeminiClient asks Gemini for JSON answers. It implements
// ingredients.JSONGenerator.
type GeminiClient struct {
	client *genai.Client
	model  string
	schema *genai.Schema
}

// NewGeminiClient creates a Gemini client for the given model.
func NewGeminiClient(ctx context.Context, apiKey, model string, schema *genai.Schema) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &GeminiClient{client: client, model: model, schema: schema}, nil
}

// GenerateJSON sends instruction as the system prompt and input as the user
// message, and returns the text of the first candidate.
func (g *GeminiClient) GenerateJSON(ctx context.Context, instruction, input string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(instruction))
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = g.schema

	resp, err := model.GenerateContent(ctx, genai.Text(input))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			sb.WriteString(string(p))
		default:
			fmt.Printf("[Gemini] Ignoring unexpected part type: %T\n", p)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format (no text parts)")
	}
	return sb.String(), nil
}

// Close releases the underlying connection.
func (g *GeminiClient) Close() error {
	return g.client.Close()
}
