package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bitbrkr/backend/internal/events"
	"github.com/bitbrkr/backend/internal/mocks"
	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/repositories"
)

func TestFollowUser(t *testing.T) {
	target := &models.User{ID: 2, Username: "bob"}

	t.Run("creates the edge and notifies the target", func(t *testing.T) {
		followRepo := new(mocks.FollowRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		publisher := new(mocks.PublisherMock)
		handler := NewFollowHandler(followRepo, userRepo, publisher)

		userRepo.On("GetUserByUsername", "bob").Return(target, nil)
		followRepo.On("CreateFollow", uint(1), uint(2)).Return(nil)
		publisher.On("Publish", mock.Anything, events.FollowCreated, mock.MatchedBy(func(ev events.Event) bool {
			return ev.ActorID == 1 && ev.RecipientID == 2
		})).Return(nil)

		c, rec := newTestContext(http.MethodPost, "/follow/bob", "")
		c.SetParamNames("username")
		c.SetParamValues("bob")
		asUser(c, 1, "alice")

		require.NoError(t, handler.FollowUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"following":true`)
		followRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("following twice is a successful no-op", func(t *testing.T) {
		followRepo := new(mocks.FollowRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		publisher := new(mocks.PublisherMock)
		handler := NewFollowHandler(followRepo, userRepo, publisher)

		userRepo.On("GetUserByUsername", "bob").Return(target, nil)
		followRepo.On("CreateFollow", uint(1), uint(2)).Return(repositories.ErrAlreadyExists)

		c, rec := newTestContext(http.MethodPost, "/follow/bob", "")
		c.SetParamNames("username")
		c.SetParamValues("bob")
		asUser(c, 1, "alice")

		require.NoError(t, handler.FollowUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"following":true`)
		// No event for an edge that already existed.
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects following yourself", func(t *testing.T) {
		followRepo := new(mocks.FollowRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewFollowHandler(followRepo, userRepo, new(mocks.PublisherMock))

		self := &models.User{ID: 1, Username: "alice"}
		userRepo.On("GetUserByUsername", "alice").Return(self, nil)
		followRepo.On("CreateFollow", uint(1), uint(1)).Return(repositories.ErrSelfReference)

		c, _ := newTestContext(http.MethodPost, "/follow/alice", "")
		c.SetParamNames("username")
		c.SetParamValues("alice")
		asUser(c, 1, "alice")

		err := handler.FollowUser(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httpCode(err))
	})

	t.Run("unknown target returns 404", func(t *testing.T) {
		followRepo := new(mocks.FollowRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewFollowHandler(followRepo, userRepo, new(mocks.PublisherMock))

		userRepo.On("GetUserByUsername", "ghost").Return(nil, repositories.ErrNotFound)

		c, _ := newTestContext(http.MethodPost, "/follow/ghost", "")
		c.SetParamNames("username")
		c.SetParamValues("ghost")
		asUser(c, 1, "alice")

		err := handler.FollowUser(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httpCode(err))
	})

	t.Run("requires authentication", func(t *testing.T) {
		handler := NewFollowHandler(new(mocks.FollowRepositoryMock), new(mocks.UserRepositoryMock), new(mocks.PublisherMock))

		c, _ := newTestContext(http.MethodPost, "/follow/bob", "")
		c.SetParamNames("username")
		c.SetParamValues("bob")

		err := handler.FollowUser(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httpCode(err))
	})
}

func TestUnfollowUser(t *testing.T) {
	target := &models.User{ID: 2, Username: "bob"}

	t.Run("removes the edge", func(t *testing.T) {
		followRepo := new(mocks.FollowRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewFollowHandler(followRepo, userRepo, new(mocks.PublisherMock))

		userRepo.On("GetUserByUsername", "bob").Return(target, nil)
		followRepo.On("DeleteFollow", uint(1), uint(2)).Return(nil)

		c, rec := newTestContext(http.MethodPost, "/unfollow/bob", "")
		c.SetParamNames("username")
		c.SetParamValues("bob")
		asUser(c, 1, "alice")

		require.NoError(t, handler.UnfollowUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"following":false`)
	})

	t.Run("unfollowing someone not followed is a no-op", func(t *testing.T) {
		followRepo := new(mocks.FollowRepositoryMock)
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewFollowHandler(followRepo, userRepo, new(mocks.PublisherMock))

		userRepo.On("GetUserByUsername", "bob").Return(target, nil)
		followRepo.On("DeleteFollow", uint(1), uint(2)).Return(repositories.ErrNotFound)

		c, rec := newTestContext(http.MethodPost, "/unfollow/bob", "")
		c.SetParamNames("username")
		c.SetParamValues("bob")
		asUser(c, 1, "alice")

		require.NoError(t, handler.UnfollowUser(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"following":false`)
	})
}

func TestGetFollows(t *testing.T) {
	followRepo := new(mocks.FollowRepositoryMock)
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewFollowHandler(followRepo, userRepo, new(mocks.PublisherMock))

	followRepo.On("GetFollowers", uint(1)).Return([]models.FollowEdge{
		{Peer: models.UserCompact{ID: 2, Username: "bob"}, Unread: true},
	}, nil)
	followRepo.On("GetFollowing", uint(1)).Return([]models.FollowEdge{
		{Peer: models.UserCompact{ID: 3, Username: "carol"}},
	}, nil)

	c, rec := newTestContext(http.MethodGet, "/follows", "")
	asUser(c, 1, "alice")

	require.NoError(t, handler.GetFollows(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bob"`)
	assert.Contains(t, rec.Body.String(), `"carol"`)
	followRepo.AssertExpectations(t)
}
