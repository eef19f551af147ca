package transcoder

import "context"

// Transcoder normalizes compressed audio into canonical PCM WAV.
type Transcoder interface {
	// Transcode decodes audio into a temporary WAV. The caller must Release
	// the result on every path.
	Transcode(ctx context.Context, audio []byte, filename string) (*PCM, error)
	// Check verifies that the ffmpeg binary can be run.
	Check(ctx context.Context) error
}
