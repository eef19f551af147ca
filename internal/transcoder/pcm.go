package transcoder

import (
	"fmt"
	"os"
	"sync"
)

// PCM is a decoded WAV file living in a private temp directory.
type PCM struct {
	Path string

	dir  string
	once sync.Once
	err  error
}

// Read returns the WAV bytes.
func (p *PCM) Read() ([]byte, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	return data, nil
}

// Release removes the temporary files. Safe to call more than once.
func (p *PCM) Release() error {
	p.once.Do(func() {
		p.err = os.RemoveAll(p.dir)
	})
	return p.err
}
