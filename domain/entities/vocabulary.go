package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewStageCount is the number of spaced-repetition stages (0..7).
const ReviewStageCount = 8

// ReviewRecord holds the spaced-repetition state of one vocabulary word.
// NextReviewAt is epoch milliseconds; the word is due when it is <= now.
type ReviewRecord struct {
	Stage        int   `json:"stage" bson:"stage"`
	NextReviewAt int64 `json:"next_review_at" bson:"next_review_at"`
}

// WordAnalysis is the dictionary/AI lookup result for a word, cached
// alongside the review state so repeat lookups stay offline.
type WordAnalysis struct {
	Word         string   `json:"word" bson:"word"`
	Reading      string   `json:"reading,omitempty" bson:"reading,omitempty"`
	Definition   string   `json:"definition" bson:"definition"`
	PartOfSpeech string   `json:"part_of_speech,omitempty" bson:"part_of_speech,omitempty"`
	Examples     []string `json:"examples,omitempty" bson:"examples,omitempty"`
}

// VocabularyEntry is one saved word: its cached analysis plus review state.
type VocabularyEntry struct {
	ID        string        `json:"id" bson:"_id,omitempty"`
	UserID    string        `json:"user_id" bson:"user_id"`
	Word      string        `json:"word" bson:"word"`
	Language  string        `json:"language" bson:"language"`
	Analysis  *WordAnalysis `json:"analysis,omitempty" bson:"analysis,omitempty"`
	Review    ReviewRecord  `json:"review" bson:"review"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// NewVocabularyEntry creates a fresh entry at stage 0, due immediately.
func NewVocabularyEntry(userID, word, language string) *VocabularyEntry {
	now := time.Now()
	return &VocabularyEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Word:      word,
		Language:  language,
		Review:    ReviewRecord{Stage: 0, NextReviewAt: now.UnixMilli()},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsDue reports whether the entry is eligible for review at now.
func (v *VocabularyEntry) IsDue(now time.Time) bool {
	return v.Review.NextReviewAt <= now.UnixMilli()
}

// Validate validates the vocabulary entry data
func (v *VocabularyEntry) Validate() error {
	if v.UserID == "" {
		return errors.New("user_id is required")
	}
	if v.Word == "" {
		return errors.New("word is required")
	}
	if v.Review.Stage < 0 || v.Review.Stage >= ReviewStageCount {
		return errors.New("review stage out of range")
	}
	return nil
}
