package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
	"github.com/madmonkey007/EchoListenultra/internal/review"
)

// VocabularyService handles word lookups, spaced-repetition reviews and
// pronunciation audio.
type VocabularyService struct {
	vocabRepo repositories.VocabularyRepository
	analyzer  repositories.WordAnalyzer
	tts       repositories.TextToSpeech
	logger    *zap.Logger
}

// NewVocabularyService creates a new vocabulary service
func NewVocabularyService(
	vocabRepo repositories.VocabularyRepository,
	analyzer repositories.WordAnalyzer,
	tts repositories.TextToSpeech,
	logger *zap.Logger,
) *VocabularyService {
	return &VocabularyService{
		vocabRepo: vocabRepo,
		analyzer:  analyzer,
		tts:       tts,
		logger:    logger,
	}
}

// Lookup returns the analysis for a word, consulting the cache first.
// A cache miss triggers a provider call and the result is stored with a
// fresh review record so the word enters the review queue.
func (s *VocabularyService) Lookup(ctx context.Context, userID, word, language string) (*entities.VocabularyEntry, error) {
	if word == "" {
		return nil, fmt.Errorf("word is required")
	}

	entry, err := s.vocabRepo.GetByWord(ctx, userID, word)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary entry: %w", err)
	}
	if entry != nil {
		return entry, nil
	}

	analysis, err := s.analyzer.Analyze(ctx, word, language)
	if err != nil {
		return nil, fmt.Errorf("word analysis failed: %w", err)
	}

	entry = entities.NewVocabularyEntry(userID, word, language)
	entry.Analysis = analysis
	if err := s.vocabRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save vocabulary entry: %w", err)
	}

	s.logger.Info("Word analyzed",
		zap.String("userID", userID),
		zap.String("word", word),
		zap.String("language", language))
	return entry, nil
}

// Review applies one spaced-repetition outcome to a saved word.
func (s *VocabularyService) Review(ctx context.Context, userID, word string, known bool) (*entities.VocabularyEntry, error) {
	entry, err := s.vocabRepo.GetByWord(ctx, userID, word)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("word %q is not in the vocabulary", word)
	}

	entry.Review = review.Review(entry.Review, known, time.Now())
	entry.UpdatedAt = time.Now()
	if err := s.vocabRepo.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return entry, nil
}

// Due lists the words whose next review time has passed.
func (s *VocabularyService) Due(ctx context.Context, userID string, limit int) ([]*entities.VocabularyEntry, error) {
	now := time.Now().UnixMilli()
	return s.vocabRepo.ListDue(ctx, userID, now, limit)
}

// Pronounce converts a word to speech and returns the audio chunk
// stream.
func (s *VocabularyService) Pronounce(ctx context.Context, word string) (<-chan []byte, error) {
	if word == "" {
		return nil, fmt.Errorf("word is required")
	}
	return s.tts.ConvertTextToSpeech(ctx, word)
}
