package llm

import (
	"context"
	"fmt"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

// MockAnalyzer is a canned WordAnalyzer for development and tests.
type MockAnalyzer struct{}

// NewMockAnalyzer creates a new mock word analyzer
func NewMockAnalyzer() repositories.WordAnalyzer {
	return &MockAnalyzer{}
}

// Analyze implements repositories.WordAnalyzer
func (m *MockAnalyzer) Analyze(ctx context.Context, word string, language string) (*entities.WordAnalysis, error) {
	return &entities.WordAnalysis{
		Word:         word,
		Definition:   fmt.Sprintf("placeholder definition of %q", word),
		PartOfSpeech: "noun",
		Examples: []string{
			fmt.Sprintf("This sentence uses %s.", word),
			fmt.Sprintf("Here is %s again.", word),
		},
	}, nil
}
