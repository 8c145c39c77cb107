package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a social media post stored in MongoDB. Likes and comments
// are embedded sub-collections owned exclusively by the post; every
// mutation to them goes through a conditional array update on the
// server, never a fetch-modify-save cycle.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Content   []ContentBlock     `json:"content" bson:"content"`
	Tags      []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Public    bool               `json:"public" bson:"public"`
	Likes     []Like             `json:"likes" bson:"likes"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// ContentBlock is one ordered unit of post content: text, a media
// reference, or both.
type ContentBlock struct {
	Text     string `json:"text,omitempty" bson:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// Like is an embedded like entry. At most one entry per user is
// enforced by the insert filter, not by the reader.
type Like struct {
	ID     primitive.ObjectID `json:"id" bson:"_id"`
	UserID uint               `json:"user_id" bson:"user_id"`
	Unread bool               `json:"unread" bson:"unread"`
}

// Comment is an embedded comment entry.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	Unread    bool               `json:"unread" bson:"unread"`
}

// CreatePostRequest defines the request body for creating a new post.
type CreatePostRequest struct {
	Content []ContentBlock `json:"content" validate:"required,min=1,dive"`
	Tags    []string       `json:"tags,omitempty" validate:"omitempty,dive,max=40"`
	Public  bool           `json:"public"`
}

// UpdatePostRequest defines the request body for editing a post.
type UpdatePostRequest struct {
	Content []ContentBlock `json:"content,omitempty" validate:"omitempty,min=1,dive"`
	Tags    []string       `json:"tags,omitempty" validate:"omitempty,dive,max=40"`
}

// CreateCommentRequest defines the request body for commenting on a post.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
