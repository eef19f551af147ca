package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Client generates text from a Gemini model, rotating API keys on quota errors.
type Client interface {
	Generate(ctx context.Context, model string, contents []*genai.Content) (string, error)
}

// Generator is the part of *genai.Models the client calls.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
