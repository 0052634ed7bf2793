package websocket

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

// CleanupService purges soft-deleted sessions and their audio blobs in
// the background.
type CleanupService struct {
	sessionRepo repositories.SessionRepository
	audioStore  repositories.AudioStore
	logger      *zap.Logger
	stopChan    chan struct{}
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(sessionRepo repositories.SessionRepository, audioStore repositories.AudioStore, logger *zap.Logger) *CleanupService {
	return &CleanupService{
		sessionRepo: sessionRepo,
		audioStore:  audioStore,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the background cleanup process
func (s *CleanupService) Start() {
	go s.cleanupLoop()
	s.logger.Info("Session cleanup service started")
}

// Stop gracefully stops the cleanup service
func (s *CleanupService) Stop() {
	close(s.stopChan)
	s.logger.Info("Session cleanup service stopped")
}

// cleanupLoop runs the cleanup process periodically
func (s *CleanupService) cleanupLoop() {
	// Run cleanup every 30 minutes
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	// Run initial cleanup after 1 minute
	initialTimer := time.NewTimer(1 * time.Minute)
	defer initialTimer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-initialTimer.C:
			s.runCleanup()
		case <-ticker.C:
			s.runCleanup()
		}
	}
}

// runCleanup removes purged session documents and their stored audio
func (s *CleanupService) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s.logger.Info("Starting session cleanup")

	audioKeys, err := s.sessionRepo.PurgeDeleted(ctx)
	if err != nil {
		s.logger.Error("Failed to purge deleted sessions", zap.Error(err))
		return
	}

	for _, key := range audioKeys {
		if key == "" {
			continue
		}
		if err := s.audioStore.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete audio blob",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	s.logger.Info("Session cleanup completed",
		zap.Int("purged", len(audioKeys)))
}
