package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
	"github.com/madmonkey007/EchoListenultra/domain/repositories"
)

type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a new MongoDB study session repository
func NewSessionRepository(db *mongo.Database) repositories.SessionRepository {
	return &SessionRepository{
		collection: db.Collection("study_sessions"),
	}
}

// Create implements repositories.SessionRepository
func (r *SessionRepository) Create(ctx context.Context, session *entities.StudySession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID implements repositories.SessionRepository
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*entities.StudySession, error) {
	if id == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	var session entities.StudySession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Not found, no error
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &session, nil
}

// ListByUserID implements repositories.SessionRepository
func (r *SessionRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]*entities.StudySession, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if limit <= 0 {
		limit = 50
	}

	filter := bson.M{"user_id": userID, "status": entities.SessionStatusActive}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var sessions []*entities.StudySession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

// Update implements repositories.SessionRepository
func (r *SessionRepository) Update(ctx context.Context, session *entities.StudySession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.ID == "" {
		return errors.New("session ID cannot be empty")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	if err != nil {
		return fmt.Errorf("failed to update session %s: %w", session.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("session %s not found", session.ID)
	}
	return nil
}

// PurgeDeleted implements repositories.SessionRepository
func (r *SessionRepository) PurgeDeleted(ctx context.Context) ([]string, error) {
	filter := bson.M{"status": entities.SessionStatusDeleted}

	cursor, err := r.collection.Find(ctx, filter,
		options.Find().SetProjection(bson.M{"audio_key": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to find deleted sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		AudioKey string `bson:"audio_key"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode deleted sessions: %w", err)
	}

	if len(docs) == 0 {
		return nil, nil
	}

	if _, err := r.collection.DeleteMany(ctx, filter); err != nil {
		return nil, fmt.Errorf("failed to purge deleted sessions: %w", err)
	}

	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.AudioKey != "" {
			keys = append(keys, d.AudioKey)
		}
	}
	return keys, nil
}
