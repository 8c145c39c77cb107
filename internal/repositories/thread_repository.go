package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bitbrkr/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ThreadRepository owns conversation identity and the append-only
// message lists. The participant pair is stored normalized (ascending)
// as two scalar fields under a compound unique index, which makes
// get-or-create race-free: the loser of a concurrent create observes
// the winner's document.
type ThreadRepository interface {
	GetOrCreateThread(ctx context.Context, userA, userB uint) (*models.Thread, error)
	GetThread(ctx context.Context, threadID string, requesterID uint) (*models.Thread, error)
	AppendMessage(ctx context.Context, threadID string, senderID uint, text string) (*models.Message, error)
	ListThreads(ctx context.Context, userID uint) ([]models.Thread, error)
}

// MongoThreadRepository implements ThreadRepository for MongoDB
type MongoThreadRepository struct {
	collection *mongo.Collection
}

// NewMongoThreadRepository creates a new MongoThreadRepository
func NewMongoThreadRepository(db *mongo.Database) *MongoThreadRepository {
	return &MongoThreadRepository{collection: db.Collection("threads")}
}

// EnsureIndexes creates the unique index backing thread deduplication.
// Called once at startup.
func (r *MongoThreadRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, pairIndexModel())
	return err
}

// pairIndexModel is the compound unique index on the scalar pair
// fields. Indexing the participant_ids array instead would be multikey
// and unique per element, not per pair.
func pairIndexModel() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: "participant_lo", Value: 1},
			{Key: "participant_hi", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
}

func normalizePair(a, b uint) (lo, hi uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// GetOrCreateThread returns the unique thread for the unordered pair
// {userA, userB}, creating it on first use. The upsert is conditional
// on the normalized scalar pair, so N concurrent calls all resolve to
// the same document.
func (r *MongoThreadRepository) GetOrCreateThread(ctx context.Context, userA, userB uint) (*models.Thread, error) {
	if userA == userB {
		return nil, ErrSelfReference
	}
	lo, hi := normalizePair(userA, userB)

	filter := bson.M{"participant_lo": lo, "participant_hi": hi}
	update := bson.M{"$setOnInsert": bson.M{
		"participant_lo":  lo,
		"participant_hi":  hi,
		"participant_ids": []uint{lo, hi},
		"messages":        []models.Message{},
		"created_at":      time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var thread models.Thread
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&thread)
	if err != nil {
		// A concurrent upsert for the same pair can trip the unique
		// index; the retry then finds the winner's document.
		if mongo.IsDuplicateKeyError(err) {
			err = r.collection.FindOne(ctx, filter).Decode(&thread)
		}
		if err != nil {
			return nil, err
		}
	}
	return &thread, nil
}

// GetThread fetches a thread, rejecting requesters outside the pair.
func (r *MongoThreadRepository) GetThread(ctx context.Context, threadID string, requesterID uint) (*models.Thread, error) {
	objID, err := primitive.ObjectIDFromHex(threadID)
	if err != nil {
		return nil, fmt.Errorf("invalid thread ID format: %w", err)
	}

	var thread models.Thread
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&thread); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !thread.HasParticipant(requesterID) {
		return nil, ErrNotParticipant
	}
	return &thread, nil
}

// AppendMessage pushes one message onto the thread's ordered list. The
// participant check is part of the update filter and the push is a
// single server-side operation, so concurrent senders interleave
// without dropping messages.
func (r *MongoThreadRepository) AppendMessage(ctx context.Context, threadID string, senderID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	objID, err := primitive.ObjectIDFromHex(threadID)
	if err != nil {
		return nil, fmt.Errorf("invalid thread ID format: %w", err)
	}

	msg := models.Message{SenderID: senderID, Text: text, SentAt: time.Now()}
	filter := bson.M{"_id": objID, "participant_ids": senderID}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"messages": msg}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrNotParticipant
	}
	return &msg, nil
}

// ListThreads returns every thread the user participates in.
func (r *MongoThreadRepository) ListThreads(ctx context.Context, userID uint) ([]models.Thread, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"participant_ids": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var threads []models.Thread
	if err = cursor.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}
