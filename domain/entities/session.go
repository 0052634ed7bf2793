package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle status of a study session
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "active"
	SessionStatusDeleted SessionStatus = "deleted"
)

// TranscriptSource records where a session's segments came from, so
// placeholder transcripts are distinguishable from real speech content.
type TranscriptSource string

const (
	TranscriptSourceRemote   TranscriptSource = "remote"
	TranscriptSourceFallback TranscriptSource = "fallback"
)

// StudySession is one imported recording with its segmented transcript.
// The segment list is written once by the import pipeline and only ever
// replaced wholesale.
type StudySession struct {
	ID        string           `json:"id" bson:"_id,omitempty"`
	UserID    string           `json:"user_id" bson:"user_id"`
	Title     string           `json:"title" bson:"title"`
	Language  string           `json:"language" bson:"language"`
	AudioKey  string           `json:"audio_key" bson:"audio_key"`
	Duration  float64          `json:"duration" bson:"duration"`
	Policy    SlicingPolicy    `json:"policy" bson:"policy"`
	Source    TranscriptSource `json:"source" bson:"source"`
	Segments  []Segment        `json:"segments" bson:"segments"`
	Status    SessionStatus    `json:"status" bson:"status"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" bson:"updated_at"`
	DeletedAt *time.Time       `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
}

// NewStudySession creates a session shell for an import. Segments, Source
// and Duration are filled in by the import pipeline.
func NewStudySession(userID, title, language string, policy SlicingPolicy) *StudySession {
	now := time.Now()
	return &StudySession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Language:  language,
		Policy:    policy,
		Status:    SessionStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetSegments replaces the session's transcript in one shot.
func (s *StudySession) SetSegments(segments []Segment, source TranscriptSource) {
	s.Segments = segments
	s.Source = source
	s.UpdatedAt = time.Now()
}

// SoftDelete marks the session deleted; documents and audio are purged
// later by the cleanup service.
func (s *StudySession) SoftDelete() {
	now := time.Now()
	s.Status = SessionStatusDeleted
	s.DeletedAt = &now
	s.UpdatedAt = now
}

// IsDeleted reports whether the session has been soft deleted.
func (s *StudySession) IsDeleted() bool {
	return s.Status == SessionStatusDeleted
}

// Validate validates the session data
func (s *StudySession) Validate() error {
	if s.UserID == "" {
		return errors.New("user_id is required")
	}
	if s.Title == "" {
		return errors.New("title is required")
	}
	if err := s.Policy.Validate(); err != nil {
		return err
	}
	if s.Status != SessionStatusActive && s.Status != SessionStatusDeleted {
		return errors.New("invalid session status")
	}
	for i, seg := range s.Segments {
		if seg.End <= seg.Start {
			return errors.New("segment end must be after start")
		}
		if i > 0 && seg.Start < s.Segments[i-1].End {
			return errors.New("segments must not overlap")
		}
	}
	return nil
}
