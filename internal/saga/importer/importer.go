package importer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
	"github.com/madmonkey007/EchoListenultra/internal/saga"
	"github.com/madmonkey007/EchoListenultra/internal/segmentation"
)

// Data keys for the import pipeline
const (
	DataKeySession     = "session"
	DataKeyAudio       = "audio"
	DataKeyAudioConfig = "audio_config"
	DataKeyWords       = "words"
)

// Definition is the session import pipeline: store the audio blob,
// try remote transcription, segment (falling back to placeholder windows
// when transcription produced nothing), persist the session. A later-step
// failure compensates by removing the stored blob.
type Definition struct {
	transcriber repositories.Transcriber
	audioStore  repositories.AudioStore
	sessionRepo repositories.SessionRepository
	logger      *zap.Logger
}

// NewDefinition creates the import pipeline definition
func NewDefinition(
	transcriber repositories.Transcriber,
	audioStore repositories.AudioStore,
	sessionRepo repositories.SessionRepository,
	logger *zap.Logger,
) *Definition {
	return &Definition{
		transcriber: transcriber,
		audioStore:  audioStore,
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

func (d *Definition) ID() string {
	return "session_import"
}

func (d *Definition) Timeout() time.Duration {
	return 2 * time.Minute
}

func (d *Definition) Steps() []saga.Step {
	return []saga.Step{
		&storeAudioStep{audioStore: d.audioStore},
		&transcribeStep{transcriber: d.transcriber, logger: d.logger},
		&segmentStep{logger: d.logger},
		&persistSessionStep{sessionRepo: d.sessionRepo},
	}
}

func sessionFrom(data saga.Data) (*entities.StudySession, error) {
	session, ok := data[DataKeySession].(*entities.StudySession)
	if !ok || session == nil {
		return nil, fmt.Errorf("pipeline data missing session")
	}
	return session, nil
}

// storeAudioStep writes the uploaded audio bytes to blob storage under
// the session's ID.
type storeAudioStep struct {
	audioStore repositories.AudioStore
}

func (s *storeAudioStep) ID() string { return "store_audio" }

func (s *storeAudioStep) Execute(ctx context.Context, data saga.Data) error {
	session, err := sessionFrom(data)
	if err != nil {
		return err
	}
	audio, ok := data[DataKeyAudio].([]byte)
	if !ok || len(audio) == 0 {
		return fmt.Errorf("pipeline data missing audio bytes")
	}

	key := session.ID + ".audio"
	if err := s.audioStore.Put(ctx, key, audio); err != nil {
		return fmt.Errorf("failed to store audio: %w", err)
	}
	session.AudioKey = key
	return nil
}

func (s *storeAudioStep) Compensate(ctx context.Context, data saga.Data) error {
	session, err := sessionFrom(data)
	if err != nil || session.AudioKey == "" {
		return err
	}
	return s.audioStore.Delete(ctx, session.AudioKey)
}

// transcribeStep asks the provider for word timings. Provider failure is
// recovered here, not propagated: an empty word list flows downstream and
// the segment step falls back to placeholder windows. The user sees a
// lower-quality transcript, never an import error.
type transcribeStep struct {
	transcriber repositories.Transcriber
	logger      *zap.Logger
}

func (s *transcribeStep) ID() string { return "transcribe" }

func (s *transcribeStep) Execute(ctx context.Context, data saga.Data) error {
	session, err := sessionFrom(data)
	if err != nil {
		return err
	}
	audio, _ := data[DataKeyAudio].([]byte)
	config, _ := data[DataKeyAudioConfig].(repositories.AudioConfig)

	words, err := s.transcriber.Transcribe(ctx, audio, config)
	if err != nil {
		s.logger.Warn("Transcription unavailable, falling back to placeholder segments",
			zap.String("sessionID", session.ID),
			zap.Error(err))
		words = nil
	}
	data[DataKeyWords] = words
	return nil
}

func (s *transcribeStep) Compensate(ctx context.Context, data saga.Data) error { return nil }

// segmentStep turns word timings into segments, or placeholder windows
// when there are none.
type segmentStep struct {
	logger *zap.Logger
}

func (s *segmentStep) ID() string { return "segment" }

func (s *segmentStep) Execute(ctx context.Context, data saga.Data) error {
	session, err := sessionFrom(data)
	if err != nil {
		return err
	}
	words, _ := data[DataKeyWords].([]entities.WordTiming)

	segments := segmentation.Segment(words, session.Policy)
	if len(segments) == 0 {
		segments = segmentation.FallbackSlice(session.Duration, session.Policy)
		session.SetSegments(segments, entities.TranscriptSourceFallback)
	} else {
		session.SetSegments(segments, entities.TranscriptSourceRemote)
	}

	// The recording is at least as long as its transcript.
	if last := segments[len(segments)-1]; session.Duration < last.End {
		session.Duration = last.End
	}

	s.logger.Info("Session segmented",
		zap.String("sessionID", session.ID),
		zap.Int("segments", len(segments)),
		zap.String("source", string(session.Source)))
	return nil
}

func (s *segmentStep) Compensate(ctx context.Context, data saga.Data) error { return nil }

// persistSessionStep writes the finished session document.
type persistSessionStep struct {
	sessionRepo repositories.SessionRepository
}

func (s *persistSessionStep) ID() string { return "persist_session" }

func (s *persistSessionStep) Execute(ctx context.Context, data saga.Data) error {
	session, err := sessionFrom(data)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *persistSessionStep) Compensate(ctx context.Context, data saga.Data) error { return nil }
