package repositories

import (
	"context"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// WordAnalyzer abstracts the dictionary/AI lookup provider. Analyze
// returns a word's metadata for study: reading, definition, part of
// speech and example sentences.
type WordAnalyzer interface {
	Analyze(ctx context.Context, word string, language string) (*entities.WordAnalysis, error)
}
