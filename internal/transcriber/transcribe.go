package transcriber

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	transcribePrompt = "Transcribe audio to text."
	wavMIME          = "audio/wav"
)

func (t *implTranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", fmt.Errorf("empty audio")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(wav, wavMIME),
		}, genai.RoleUser),
	}

	text, err := t.client.Generate(ctx, t.model, contents)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text = strings.TrimSpace(text)
	t.logger.Debug(ctx, "Transcribed %d bytes of audio into %d chars", len(wav), len(text))
	return text, nil
}
