package repositories

import (
	"context"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// Transcriber abstracts the speech recognition provider. It returns
// word-level timing records for a whole recording, time-ordered. An empty
// result is not an error: it signals the caller to fall back to
// placeholder segmentation.
type Transcriber interface {
	// Transcribe converts a full recording to word timing records
	Transcribe(ctx context.Context, audioData []byte, config AudioConfig) ([]entities.WordTiming, error)
}

// AudioConfig represents audio configuration for speech recognition
type AudioConfig struct {
	SampleRate int    `json:"sample_rate"`
	Encoding   string `json:"encoding"`
	Language   string `json:"language"`
}
