package repositories

import (
	"context"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// SessionRepository defines data access methods for study sessions
type SessionRepository interface {
	Create(ctx context.Context, session *entities.StudySession) error
	GetByID(ctx context.Context, id string) (*entities.StudySession, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]*entities.StudySession, error)
	Update(ctx context.Context, session *entities.StudySession) error
	// PurgeDeleted permanently removes soft-deleted sessions and returns
	// the audio keys of the purged documents so blobs can be removed too.
	PurgeDeleted(ctx context.Context) ([]string, error)
}

// VocabularyRepository defines data access methods for vocabulary entries
type VocabularyRepository interface {
	Upsert(ctx context.Context, entry *entities.VocabularyEntry) error
	GetByWord(ctx context.Context, userID, word string) (*entities.VocabularyEntry, error)
	// ListDue returns entries whose next review time is at or before now (epoch ms).
	ListDue(ctx context.Context, userID string, now int64, limit int) ([]*entities.VocabularyEntry, error)
}

// UserRepository defines data access methods for users
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id string) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}

// AudioStore abstracts blob storage for imported audio bytes.
type AudioStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
