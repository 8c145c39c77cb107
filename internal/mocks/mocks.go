package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bitbrkr/backend/internal/events"
	"github.com/bitbrkr/backend/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUsers() ([]models.User, error) {
	args := m.Called()
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) GetUsersByIDs(ids []uint) (map[uint]models.User, error) {
	args := m.Called(ids)
	var users map[uint]models.User
	if val := args.Get(0); val != nil {
		users = val.(map[uint]models.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

type FollowRepositoryMock struct {
	mock.Mock
}

func (m *FollowRepositoryMock) CreateFollow(followerID, followedID uint) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *FollowRepositoryMock) DeleteFollow(followerID, followedID uint) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *FollowRepositoryMock) IsFollowing(followerID, followedID uint) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *FollowRepositoryMock) GetFollowers(userID uint) ([]models.FollowEdge, error) {
	args := m.Called(userID)
	var edges []models.FollowEdge
	if val := args.Get(0); val != nil {
		edges = val.([]models.FollowEdge)
	}
	return edges, args.Error(1)
}

func (m *FollowRepositoryMock) GetFollowing(userID uint) ([]models.FollowEdge, error) {
	args := m.Called(userID)
	var edges []models.FollowEdge
	if val := args.Get(0); val != nil {
		edges = val.([]models.FollowEdge)
	}
	return edges, args.Error(1)
}

func (m *FollowRepositoryMock) GetFollowingIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	var ids []uint
	if val := args.Get(0); val != nil {
		ids = val.([]uint)
	}
	return ids, args.Error(1)
}

func (m *FollowRepositoryMock) GetUnreadFollowers(userID uint) ([]models.FollowEdge, error) {
	args := m.Called(userID)
	var edges []models.FollowEdge
	if val := args.Get(0); val != nil {
		edges = val.([]models.FollowEdge)
	}
	return edges, args.Error(1)
}

func (m *FollowRepositoryMock) MarkFollowerRead(userID, followerID uint) error {
	args := m.Called(userID, followerID)
	return args.Error(0)
}

type PostRepositoryMock struct {
	mock.Mock
}

func (m *PostRepositoryMock) CreatePost(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *PostRepositoryMock) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	var post *models.Post
	if val := args.Get(0); val != nil {
		post = val.(*models.Post)
	}
	return post, args.Error(1)
}

func (m *PostRepositoryMock) UpdatePost(ctx context.Context, id string, authorID uint, content []models.ContentBlock, tags []string) error {
	args := m.Called(ctx, id, authorID, content, tags)
	return args.Error(0)
}

func (m *PostRepositoryMock) DeletePost(ctx context.Context, id string, authorID uint) error {
	args := m.Called(ctx, id, authorID)
	return args.Error(0)
}

func (m *PostRepositoryMock) GetPublicPosts(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) GetPostsByAuthors(ctx context.Context, authorIDs []uint) ([]models.Post, error) {
	args := m.Called(ctx, authorIDs)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) GetPostsByAuthor(ctx context.Context, authorID uint) ([]models.Post, error) {
	args := m.Called(ctx, authorID)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) AddLike(ctx context.Context, postID string, userID uint) (*models.Like, error) {
	args := m.Called(ctx, postID, userID)
	var like *models.Like
	if val := args.Get(0); val != nil {
		like = val.(*models.Like)
	}
	return like, args.Error(1)
}

func (m *PostRepositoryMock) RemoveLike(ctx context.Context, postID string, userID uint) error {
	args := m.Called(ctx, postID, userID)
	return args.Error(0)
}

func (m *PostRepositoryMock) AddComment(ctx context.Context, postID string, userID uint, text string) (*models.Comment, error) {
	args := m.Called(ctx, postID, userID, text)
	var comment *models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(*models.Comment)
	}
	return comment, args.Error(1)
}

func (m *PostRepositoryMock) GetPostsWithUnreadComments(ctx context.Context, authorID uint) ([]models.Post, error) {
	args := m.Called(ctx, authorID)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) GetPostsWithUnreadLikes(ctx context.Context, authorID uint) ([]models.Post, error) {
	args := m.Called(ctx, authorID)
	var posts []models.Post
	if val := args.Get(0); val != nil {
		posts = val.([]models.Post)
	}
	return posts, args.Error(1)
}

func (m *PostRepositoryMock) MarkCommentRead(ctx context.Context, ownerID uint, commentID string) error {
	args := m.Called(ctx, ownerID, commentID)
	return args.Error(0)
}

func (m *PostRepositoryMock) MarkLikeRead(ctx context.Context, ownerID uint, likeID string) error {
	args := m.Called(ctx, ownerID, likeID)
	return args.Error(0)
}

type ThreadRepositoryMock struct {
	mock.Mock
}

func (m *ThreadRepositoryMock) GetOrCreateThread(ctx context.Context, userA, userB uint) (*models.Thread, error) {
	args := m.Called(ctx, userA, userB)
	var thread *models.Thread
	if val := args.Get(0); val != nil {
		thread = val.(*models.Thread)
	}
	return thread, args.Error(1)
}

func (m *ThreadRepositoryMock) GetThread(ctx context.Context, threadID string, requesterID uint) (*models.Thread, error) {
	args := m.Called(ctx, threadID, requesterID)
	var thread *models.Thread
	if val := args.Get(0); val != nil {
		thread = val.(*models.Thread)
	}
	return thread, args.Error(1)
}

func (m *ThreadRepositoryMock) AppendMessage(ctx context.Context, threadID string, senderID uint, text string) (*models.Message, error) {
	args := m.Called(ctx, threadID, senderID, text)
	var msg *models.Message
	if val := args.Get(0); val != nil {
		msg = val.(*models.Message)
	}
	return msg, args.Error(1)
}

func (m *ThreadRepositoryMock) ListThreads(ctx context.Context, userID uint) ([]models.Thread, error) {
	args := m.Called(ctx, userID)
	var threads []models.Thread
	if val := args.Get(0); val != nil {
		threads = val.([]models.Thread)
	}
	return threads, args.Error(1)
}

// PublisherMock records published events without a broker.
type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event events.Event) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
