package transcriber

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/scribe/internal/logger"
	"google.golang.org/genai"
)

type fakeClient struct {
	text     string
	err      error
	model    string
	contents []*genai.Content
}

func (f *fakeClient) Generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	f.model = model
	f.contents = contents
	return f.text, f.err
}

func TestTranscribe(t *testing.T) {
	client := &fakeClient{text: "  hello there \n"}
	tr := New(client, "gemini-2.5-flash", logger.Nop())

	got, err := tr.Transcribe(context.Background(), []byte("RIFF"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "hello there" {
		t.Errorf("Transcribe() = %q, want %q", got, "hello there")
	}
	if client.model != "gemini-2.5-flash" {
		t.Errorf("model = %q, want %q", client.model, "gemini-2.5-flash")
	}

	if len(client.contents) != 1 || len(client.contents[0].Parts) != 2 {
		t.Fatalf("contents = %+v, want one content with two parts", client.contents)
	}
	parts := client.contents[0].Parts
	if parts[0].Text != transcribePrompt {
		t.Errorf("prompt = %q, want %q", parts[0].Text, transcribePrompt)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != wavMIME {
		t.Errorf("audio part = %+v, want inline %s", parts[1].InlineData, wavMIME)
	}
	if string(parts[1].InlineData.Data) != "RIFF" {
		t.Errorf("audio data = %q, want %q", parts[1].InlineData.Data, "RIFF")
	}
}

func TestTranscribeSilence(t *testing.T) {
	tr := New(&fakeClient{text: ""}, "m", logger.Nop())

	got, err := tr.Transcribe(context.Background(), []byte("RIFF"))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "" {
		t.Errorf("Transcribe() = %q, want empty", got)
	}
}

func TestTranscribeErrors(t *testing.T) {
	cause := errors.New("all API keys exhausted")
	tests := []struct {
		name   string
		client *fakeClient
		wav    []byte
	}{
		{"empty audio", &fakeClient{}, nil},
		{"client error", &fakeClient{err: cause}, []byte("RIFF")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(tt.client, "m", logger.Nop())
			if _, err := tr.Transcribe(context.Background(), tt.wav); err == nil {
				t.Error("Transcribe() should fail")
			}
		})
	}
}
