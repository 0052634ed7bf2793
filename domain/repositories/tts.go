package repositories

import "context"

// TextToSpeech abstracts pronunciation synthesis for vocabulary review.
// Audio is streamed back as raw chunks over the returned channel; the
// channel is closed when synthesis finishes.
type TextToSpeech interface {
	ConvertTextToSpeech(ctx context.Context, text string) (<-chan []byte, error)
}
