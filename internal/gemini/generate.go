package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Generate sends contents to model and returns the normalized response text.
// Each key is tried at most once per call.
func (c *implClient) Generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	if len(c.generators) == 0 {
		return "", fmt.Errorf("no gemini clients configured")
	}

	var lastErr error
	for range len(c.generators) {
		idx, gen := c.current()

		resp, err := gen.GenerateContent(ctx, model, contents, nil)
		if err != nil {
			if isQuotaError(err) {
				c.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				c.rotateFrom(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		// a reply without candidates reads as no text
		return ResponseText(resp), nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implClient) current() (int, Generator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentKey, c.generators[c.currentKey]
}

// rotateFrom advances past idx unless another request already rotated.
func (c *implClient) rotateFrom(idx int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentKey == idx {
		c.currentKey = (c.currentKey + 1) % len(c.generators)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
