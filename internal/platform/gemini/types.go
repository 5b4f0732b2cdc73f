package gemini

import (
	"context"

	"google.golang.org/genai"
)

// promptData represents the data passed to the prompt template
type promptData struct {
	Name string
	Code string
}

// contentGenerator is the subset of *genai.Models used by the analyzer.
// Tests substitute a fake to avoid network calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}
