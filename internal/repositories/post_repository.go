package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bitbrkr/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for post data operations. Likes
// and comments are embedded in the post document; every mutation to
// them is a conditional server-side array update so concurrent writers
// cannot lose each other's entries.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, authorID uint, content []models.ContentBlock, tags []string) error
	DeletePost(ctx context.Context, id string, authorID uint) error

	GetPublicPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error)

	AddLike(ctx context.Context, postID string, userID uint) (*models.Like, error)
	RemoveLike(ctx context.Context, postID string, userID uint) error
	AddComment(ctx context.Context, postID string, userID uint, text string) (*models.Comment, error)

	GetPostsWithUnreadComments(ctx context.Context, authorID uint) ([]models.Post, error)
	GetPostsWithUnreadLikes(ctx context.Context, authorID uint) ([]models.Post, error)
	MarkCommentRead(ctx context.Context, ownerID uint, commentID string) error
	MarkLikeRead(ctx context.Context, ownerID uint, likeID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost edits content and tags of a post. The author filter is
// part of the update, so a non-owner can never modify the document.
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, authorID uint, content []models.ContentBlock, tags []string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if content != nil {
		set["content"] = content
	}
	if tags != nil {
		set["tags"] = tags
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID, "author_id": authorID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return r.classifyMiss(ctx, objID)
	}
	return nil
}

// DeletePost deletes a post owned by authorID.
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string, authorID uint) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "author_id": authorID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return r.classifyMiss(ctx, objID)
	}
	return nil
}

// classifyMiss distinguishes "post gone" from "post exists but the
// author filter excluded it" after a zero-match owner-scoped write.
func (r *MongoPostRepository) classifyMiss(ctx context.Context, objID primitive.ObjectID) error {
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrNotOwner
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPublicPosts returns public posts, newest first.
func (r *MongoPostRepository) GetPublicPosts(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{"public": true})
}

// GetPostsByAuthors returns posts authored by any of authorIDs,
// regardless of visibility, newest first.
func (r *MongoPostRepository) GetPostsByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"author_id": bson.M{"$in": authorIDs}})
}

// GetPostsByAuthor returns all of one author's posts, newest first.
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author_id": authorID})
}

// AddLike appends a like entry for userID unless one already exists.
// The membership test lives in the update filter, so two concurrent
// likes cannot both insert.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID string, userID uint) (*models.Like, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	like := models.Like{ID: primitive.NewObjectID(), UserID: userID, Unread: true}
	filter := bson.M{"_id": objID, "likes.user_id": bson.M{"$ne": userID}}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"likes": like}})
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
		return nil, ErrAlreadyExists
	}
	return &like, nil
}

// RemoveLike removes userID's like entry if present.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$pull": bson.M{"likes": bson.M{"user_id": userID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddComment appends a comment entry with the unread flag set.
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, userID uint, text string) (*models.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
		Unread:    true,
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &comment, nil
}

// GetPostsWithUnreadComments returns the author's posts containing at
// least one unread comment.
func (r *MongoPostRepository) GetPostsWithUnreadComments(ctx context.Context, authorID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author_id": authorID, "comments.unread": true})
}

// GetPostsWithUnreadLikes returns the author's posts containing at
// least one unread like.
func (r *MongoPostRepository) GetPostsWithUnreadLikes(ctx context.Context, authorID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author_id": authorID, "likes.unread": true})
}

// MarkCommentRead flips one comment's unread flag to false. The filter
// pins the owning post to ownerID, so acknowledging someone else's
// event fails with ErrNotOwner. Re-acknowledging is a no-op.
func (r *MongoPostRepository) MarkCommentRead(ctx context.Context, ownerID uint, commentID string) error {
	return r.markEmbeddedRead(ctx, ownerID, commentID, "comments")
}

// MarkLikeRead flips one like's unread flag to false, with the same
// ownership rule as MarkCommentRead.
func (r *MongoPostRepository) MarkLikeRead(ctx context.Context, ownerID uint, likeID string) error {
	return r.markEmbeddedRead(ctx, ownerID, likeID, "likes")
}

func (r *MongoPostRepository) markEmbeddedRead(ctx context.Context, ownerID uint, eventID, field string) error {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID format: %w", err)
	}

	filter := bson.M{field + "._id": objID, "author_id": ownerID}
	update := bson.M{"$set": bson.M{field + ".$.unread": false}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{field + "._id": objID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrNotOwner
	}
	return nil
}
