package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

// In-memory repositories for development mode and tests, mirroring the
// mongo implementations' not-found conventions (nil, nil).

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entities.StudySession
}

var _ repositories.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates an empty in-memory session repository
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]*entities.StudySession)}
}

func (r *SessionRepository) Create(ctx context.Context, session *entities.StudySession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entities.StudySession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *SessionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*entities.StudySession, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sessions []*entities.StudySession
	for _, s := range r.sessions {
		if s.UserID == userID && s.Status == entities.SessionStatusActive {
			copied := *s
			sessions = append(sessions, &copied)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *entities.StudySession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return errors.New("session not found")
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *SessionRepository) PurgeDeleted(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for id, s := range r.sessions {
		if s.Status == entities.SessionStatusDeleted {
			if s.AudioKey != "" {
				keys = append(keys, s.AudioKey)
			}
			delete(r.sessions, id)
		}
	}
	return keys, nil
}

type VocabularyRepository struct {
	mu      sync.RWMutex
	entries map[string]*entities.VocabularyEntry // keyed by userID+"/"+word
}

var _ repositories.VocabularyRepository = (*VocabularyRepository)(nil)

// NewVocabularyRepository creates an empty in-memory vocabulary repository
func NewVocabularyRepository() *VocabularyRepository {
	return &VocabularyRepository{entries: make(map[string]*entities.VocabularyEntry)}
}

func (r *VocabularyRepository) Upsert(ctx context.Context, entry *entities.VocabularyEntry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	r.entries[entry.UserID+"/"+entry.Word] = &copied
	return nil
}

func (r *VocabularyRepository) GetByWord(ctx context.Context, userID, word string) (*entities.VocabularyEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[userID+"/"+word]
	if !ok {
		return nil, nil
	}
	copied := *entry
	return &copied, nil
}

func (r *VocabularyRepository) ListDue(ctx context.Context, userID string, now int64, limit int) ([]*entities.VocabularyEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var due []*entities.VocabularyEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Review.NextReviewAt <= now {
			copied := *e
			due = append(due, &copied)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].Review.NextReviewAt < due[j].Review.NextReviewAt
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entities.User
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entities.User)}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := user.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return errors.New("email already registered")
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}
