package transcriber

import (
	"github.com/nguyentantai21042004/scribe/internal/gemini"
	"github.com/nguyentantai21042004/scribe/internal/logger"
)

type implTranscriber struct {
	client gemini.Client
	model  string
	logger logger.Logger
}

// New creates a Transcriber calling model through client.
func New(client gemini.Client, model string, log logger.Logger) Transcriber {
	return &implTranscriber{
		client: client,
		model:  model,
		logger: log,
	}
}
