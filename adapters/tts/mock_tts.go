package tts

import (
	"context"

	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

// MockTTS returns a tiny fixed byte stream instead of calling out. Used
// for local development without an ElevenLabs key.
type MockTTS struct{}

// NewMockTTS creates a mock text-to-speech converter
func NewMockTTS() repositories.TextToSpeech {
	return &MockTTS{}
}

// ConvertTextToSpeech streams a canned payload in small chunks.
func (m *MockTTS) ConvertTextToSpeech(ctx context.Context, text string) (<-chan []byte, error) {
	ch := make(chan []byte, 4)
	go func() {
		defer close(ch)
		for _, chunk := range [][]byte{[]byte("RIFF"), []byte("fake"), []byte("audio")} {
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
