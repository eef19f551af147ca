package transcoder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	inputBase  = "chunk"
	outputName = "chunk.wav"
)

// Transcode converts one chunk to mono 16-bit PCM WAV at the configured rate,
// the format the transcription model expects.
func (t *implTranscoder) Transcode(ctx context.Context, audio []byte, filename string) (*PCM, error) {
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio payload")
	}

	if err := t.sem.acquire(ctx); err != nil {
		return nil, err
	}
	defer t.sem.release()

	if err := os.MkdirAll(t.tempDir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	// Isolated temp dir per chunk so concurrent uploads never collide
	workDir, err := os.MkdirTemp(t.tempDir, "chunk-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	pcm := &PCM{Path: filepath.Join(workDir, outputName), dir: workDir}

	inputName := inputBase + inputExt(filename)
	if err := os.WriteFile(filepath.Join(workDir, inputName), audio, 0600); err != nil {
		pcm.Release()
		return nil, fmt.Errorf("write input: %w", err)
	}

	// -vn: drop any video stream
	// -ac/-ar: channel count and sample rate
	// -c:a pcm_s16le: 16-bit little-endian PCM
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", inputName,
		"-vn",
		"-ac", strconv.Itoa(t.channels),
		"-ar", strconv.Itoa(t.sampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outputName,
	}

	t.logger.Debug(ctx, "ffmpeg in %s (%d running): %s", workDir, t.sem.busy(), strings.Join(args, " "))

	if _, err := t.executor.ExecuteInDir(ctx, workDir, t.binary, args...); err != nil {
		pcm.Release()
		return nil, fmt.Errorf("ffmpeg transcode: %w", err)
	}

	if _, err := os.Stat(pcm.Path); err != nil {
		pcm.Release()
		return nil, fmt.Errorf("ffmpeg produced no output: %w", err)
	}

	return pcm, nil
}

func (t *implTranscoder) Check(ctx context.Context) error {
	if _, err := t.executor.Execute(ctx, t.binary, "-version"); err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}
	return nil
}

// inputExt keeps a plain extension from the client filename so ffmpeg can
// pick the demuxer; anything odd falls back to .webm.
func inputExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ".webm"
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ".webm"
		}
	}
	return ext
}
