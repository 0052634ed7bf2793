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

type VocabularyRepository struct {
	collection *mongo.Collection
}

// NewVocabularyRepository creates a new MongoDB vocabulary repository
func NewVocabularyRepository(db *mongo.Database) repositories.VocabularyRepository {
	return &VocabularyRepository{
		collection: db.Collection("vocabulary"),
	}
}

// Upsert implements repositories.VocabularyRepository
func (r *VocabularyRepository) Upsert(ctx context.Context, entry *entities.VocabularyEntry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid vocabulary entry: %w", err)
	}

	filter := bson.M{"user_id": entry.UserID, "word": entry.Word}
	_, err := r.collection.ReplaceOne(ctx, filter, entry, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary entry %q: %w", entry.Word, err)
	}
	return nil
}

// GetByWord implements repositories.VocabularyRepository
func (r *VocabularyRepository) GetByWord(ctx context.Context, userID, word string) (*entities.VocabularyEntry, error) {
	if userID == "" || word == "" {
		return nil, errors.New("user ID and word are required")
	}

	var entry entities.VocabularyEntry
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID, "word": word}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Not found, no error
		}
		return nil, fmt.Errorf("failed to get vocabulary entry %q: %w", word, err)
	}
	return &entry, nil
}

// ListDue implements repositories.VocabularyRepository
func (r *VocabularyRepository) ListDue(ctx context.Context, userID string, now int64, limit int) ([]*entities.VocabularyEntry, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	if limit <= 0 {
		limit = 100
	}

	filter := bson.M{
		"user_id":              userID,
		"review.next_review_at": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.M{"review.next_review_at": 1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list due vocabulary: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*entities.VocabularyEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary entries: %w", err)
	}
	return entries, nil
}
