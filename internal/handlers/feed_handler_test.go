package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bitbrkr/backend/internal/mocks"
	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/repositories"
)

func TestGetPublicFeed(t *testing.T) {
	postRepo := new(mocks.PostRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewFeedHandler(postRepo, userRepo, new(mocks.FollowRepositoryMock))

	public := models.Post{
		ID:       primitive.NewObjectID(),
		AuthorID: 2,
		Public:   true,
		Content:  []models.ContentBlock{{Text: "hello world"}},
	}
	// The repository query already excludes private posts.
	postRepo.On("GetPublicPosts", mock.Anything).Return([]models.Post{public}, nil)
	userRepo.On("GetUsersByIDs", mock.Anything).Return(map[uint]models.User{
		2: {ID: 2, Username: "bob", Avatar: "/images/bit-brkr.png"},
	}, nil)

	c, rec := newTestContext(http.MethodGet, "/feed", "")

	require.NoError(t, handler.GetPublicFeed(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hello world")
	assert.Contains(t, rec.Body.String(), `"username":"bob"`)
}

func TestGetFollowingFeed(t *testing.T) {
	t.Run("returns followed authors' posts regardless of visibility", func(t *testing.T) {
		postRepo := new(mocks.PostRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		followRepo := new(mocks.FollowRepositoryMock)
		handler := NewFeedHandler(postRepo, userRepo, followRepo)

		private := models.Post{
			ID:       primitive.NewObjectID(),
			AuthorID: 2,
			Public:   false,
			Content:  []models.ContentBlock{{Text: "followers only"}},
		}
		followRepo.On("GetFollowingIDs", uint(1)).Return([]uint{2, 3}, nil)
		postRepo.On("GetPostsByAuthors", mock.Anything, []uint{2, 3}).Return([]models.Post{private}, nil)
		userRepo.On("GetUsersByIDs", mock.Anything).Return(map[uint]models.User{
			2: {ID: 2, Username: "bob"},
		}, nil)

		c, rec := newTestContext(http.MethodGet, "/feed/follows", "")
		asUser(c, 1, "alice")

		require.NoError(t, handler.GetFollowingFeed(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "followers only")
	})

	t.Run("requires authentication", func(t *testing.T) {
		handler := NewFeedHandler(new(mocks.PostRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.FollowRepositoryMock))

		c, _ := newTestContext(http.MethodGet, "/feed/follows", "")

		err := handler.GetFollowingFeed(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httpCode(err))
	})
}

func TestGetUserFeed(t *testing.T) {
	t.Run("returns all of one author's posts", func(t *testing.T) {
		postRepo := new(mocks.PostRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewFeedHandler(postRepo, userRepo, new(mocks.FollowRepositoryMock))

		bob := &models.User{ID: 2, Username: "bob"}
		post := models.Post{ID: primitive.NewObjectID(), AuthorID: 2, Content: []models.ContentBlock{{Text: "mine"}}}
		userRepo.On("GetUserByUsername", "bob").Return(bob, nil)
		postRepo.On("GetPostsByAuthor", mock.Anything, uint(2)).Return([]models.Post{post}, nil)
		userRepo.On("GetUsersByIDs", mock.Anything).Return(map[uint]models.User{2: *bob}, nil)

		c, rec := newTestContext(http.MethodGet, "/feed/bob", "")
		c.SetParamNames("username")
		c.SetParamValues("bob")

		require.NoError(t, handler.GetUserFeed(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "mine")
	})

	t.Run("unknown author returns 404", func(t *testing.T) {
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewFeedHandler(new(mocks.PostRepositoryMock), userRepo, new(mocks.FollowRepositoryMock))

		userRepo.On("GetUserByUsername", "ghost").Return(nil, repositories.ErrNotFound)

		c, _ := newTestContext(http.MethodGet, "/feed/ghost", "")
		c.SetParamNames("username")
		c.SetParamValues("ghost")

		err := handler.GetUserFeed(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httpCode(err))
	})
}

func TestEnrichPosts(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)

	commentID := primitive.NewObjectID()
	post := models.Post{
		ID:       primitive.NewObjectID(),
		AuthorID: 2,
		Comments: []models.Comment{{ID: commentID, UserID: 3, Text: "hi"}},
	}
	userRepo.On("GetUsersByIDs", mock.Anything).Return(map[uint]models.User{
		2: {ID: 2, Username: "bob"},
		3: {ID: 3, Username: "carol"},
	}, nil)

	enriched, err := enrichPosts([]models.Post{post}, userRepo)
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "bob", enriched[0].Author.Username)
	assert.Equal(t, "carol", enriched[0].CommentAuthors[commentID.Hex()].Username)
}
