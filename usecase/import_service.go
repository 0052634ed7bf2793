package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
	"github.com/madmonkey007/EchoListenultra/internal/saga"
	"github.com/madmonkey007/EchoListenultra/internal/saga/importer"
	"github.com/madmonkey007/EchoListenultra/internal/segmentation"
)

// ImportRequest carries everything needed to import one recording.
type ImportRequest struct {
	UserID      string
	Title       string
	Language    string
	Policy      entities.SlicingPolicy
	Audio       []byte
	AudioConfig repositories.AudioConfig
	// Duration is the caller-declared recording length in seconds, used
	// by the fallback slicer when transcription yields nothing. Zero is
	// acceptable; the slicer assumes a default.
	Duration float64
}

// ImportService runs the import pipeline: store audio, attempt remote
// transcription, segment (with local fallback), persist the session.
type ImportService struct {
	runner      *saga.Runner
	definition  *importer.Definition
	sessionRepo repositories.SessionRepository
	audioStore  repositories.AudioStore
	logger      *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(
	transcriber repositories.Transcriber,
	audioStore repositories.AudioStore,
	sessionRepo repositories.SessionRepository,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		runner:      saga.NewRunner(logger),
		definition:  importer.NewDefinition(transcriber, audioStore, sessionRepo, logger),
		sessionRepo: sessionRepo,
		audioStore:  audioStore,
		logger:      logger,
	}
}

// Import processes one recording and returns the persisted session.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*entities.StudySession, error) {
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("audio data is required")
	}
	if err := req.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid slicing policy: %w", err)
	}

	session := entities.NewStudySession(req.UserID, req.Title, req.Language, req.Policy)
	session.Duration = req.Duration

	data := saga.Data{
		importer.DataKeySession:     session,
		importer.DataKeyAudio:       req.Audio,
		importer.DataKeyAudioConfig: req.AudioConfig,
	}
	if err := s.runner.Run(ctx, s.definition, data); err != nil {
		return nil, fmt.Errorf("import failed: %w", err)
	}

	s.logger.Info("Session imported",
		zap.String("sessionID", session.ID),
		zap.String("userID", session.UserID),
		zap.Int("segments", len(session.Segments)),
		zap.String("source", string(session.Source)))
	return session, nil
}

// GetSession loads a session by ID, scoped to its owner.
func (s *ImportService) GetSession(ctx context.Context, userID, id string) (*entities.StudySession, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsDeleted() || session.UserID != userID {
		return nil, nil
	}
	return session, nil
}

// ListSessions lists a user's active sessions, newest first.
func (s *ImportService) ListSessions(ctx context.Context, userID string, limit int) ([]*entities.StudySession, error) {
	return s.sessionRepo.ListByUserID(ctx, userID, limit)
}

// DeleteSession soft-deletes a session; blobs and documents are purged
// later by the cleanup service.
func (s *ImportService) DeleteSession(ctx context.Context, userID, id string) error {
	session, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", id)
	}
	session.SoftDelete()
	return s.sessionRepo.Update(ctx, session)
}

// SessionTurns groups a session's segments into speaker turns for
// rendering.
func (s *ImportService) SessionTurns(ctx context.Context, userID, id string) ([]entities.Turn, error) {
	session, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return segmentation.GroupTurns(session.Segments), nil
}

// SessionAudio streams back the stored audio bytes for playback.
func (s *ImportService) SessionAudio(ctx context.Context, userID, id string) ([]byte, error) {
	session, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return s.audioStore.Get(ctx, session.AudioKey)
}
