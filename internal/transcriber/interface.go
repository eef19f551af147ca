package transcriber

import "context"

// Transcriber turns canonical PCM WAV audio into text. An empty string means
// no speech was recognized.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}
