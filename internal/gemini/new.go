package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"google.golang.org/genai"
)

type implClient struct {
	mu         sync.Mutex
	generators []Generator
	currentKey int
	logger     logger.Logger
}

// New creates one genai client per API key up front. The clients are shared
// by every request for the life of the process.
func New(ctx context.Context, apiKeys []string, log logger.Logger) (Client, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("no gemini api keys")
	}

	gens := make([]Generator, 0, len(apiKeys))
	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create client for key %d: %w", i+1, err)
		}
		gens = append(gens, client.Models)
	}

	return NewWithGenerators(gens, log), nil
}

// NewWithGenerators builds a Client over already constructed generators.
func NewWithGenerators(gens []Generator, log logger.Logger) Client {
	return &implClient{
		generators: gens,
		logger:     log,
	}
}
