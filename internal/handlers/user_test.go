package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bitbrkr/backend/internal/mocks"
	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/repositories"
)

func TestUpdateProfile(t *testing.T) {
	t.Run("updates only the provided fields", func(t *testing.T) {
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewUserHandler(userRepo, new(mocks.PostRepositoryMock), new(mocks.FollowRepositoryMock))

		alice := &models.User{ID: 1, Username: "alice", Status: "Hello, World!", Bio: "old bio"}
		userRepo.On("GetUserByID", uint(1)).Return(alice, nil)
		userRepo.On("UpdateUser", mock.MatchedBy(func(u *models.User) bool {
			return u.Status == "out riding" && u.Bio == "old bio"
		})).Return(nil)

		c, rec := newTestContext(http.MethodPut, "/profile", `{"status":"out riding"}`)
		asUser(c, 1, "alice")

		require.NoError(t, handler.UpdateProfile(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		userRepo.AssertExpectations(t)
	})

	t.Run("rejects an over-long status", func(t *testing.T) {
		handler := NewUserHandler(new(mocks.UserRepositoryMock), new(mocks.PostRepositoryMock), new(mocks.FollowRepositoryMock))

		long := make([]byte, 200)
		for i := range long {
			long[i] = 'x'
		}
		c, _ := newTestContext(http.MethodPut, "/profile", `{"status":"`+string(long)+`"}`)
		asUser(c, 1, "alice")

		err := handler.UpdateProfile(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httpCode(err))
	})
}

func TestGetDirectory(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewUserHandler(userRepo, new(mocks.PostRepositoryMock), new(mocks.FollowRepositoryMock))

	userRepo.On("GetUsers").Return([]models.User{
		{ID: 1, Username: "alice", Password: "secret-hash"},
		{ID: 2, Username: "bob"},
	}, nil)

	c, rec := newTestContext(http.MethodGet, "/users", "")
	asUser(c, 1, "alice")

	require.NoError(t, handler.GetDirectory(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)
	assert.Contains(t, rec.Body.String(), `"bob"`)
	assert.NotContains(t, rec.Body.String(), "secret-hash")
}

func TestGetByHandle(t *testing.T) {
	bob := &models.User{ID: 2, Username: "bob"}

	t.Run("returns the profile with posts and follow state", func(t *testing.T) {
		userRepo := new(mocks.UserRepositoryMock)
		postRepo := new(mocks.PostRepositoryMock)
		followRepo := new(mocks.FollowRepositoryMock)
		handler := NewUserHandler(userRepo, postRepo, followRepo)

		userRepo.On("GetUserByUsername", "bob").Return(bob, nil)
		followRepo.On("IsFollowing", uint(1), uint(2)).Return(true, nil)
		postRepo.On("GetPostsByAuthor", mock.Anything, uint(2)).Return([]models.Post{}, nil)

		c, rec := newTestContext(http.MethodGet, "/users/bob", "")
		c.SetParamNames("username")
		c.SetParamValues("bob")
		asUser(c, 1, "alice")

		require.NoError(t, handler.GetByHandle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"bob"`)
		assert.Contains(t, rec.Body.String(), `"following":true`)
		followRepo.AssertExpectations(t)
	})

	t.Run("viewing your own profile skips the edge lookup", func(t *testing.T) {
		userRepo := new(mocks.UserRepositoryMock)
		postRepo := new(mocks.PostRepositoryMock)
		followRepo := new(mocks.FollowRepositoryMock)
		handler := NewUserHandler(userRepo, postRepo, followRepo)

		alice := &models.User{ID: 1, Username: "alice"}
		userRepo.On("GetUserByUsername", "alice").Return(alice, nil)
		postRepo.On("GetPostsByAuthor", mock.Anything, uint(1)).Return([]models.Post{}, nil)

		c, rec := newTestContext(http.MethodGet, "/users/alice", "")
		c.SetParamNames("username")
		c.SetParamValues("alice")
		asUser(c, 1, "alice")

		require.NoError(t, handler.GetByHandle(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"following":false`)
		followRepo.AssertNotCalled(t, "IsFollowing", mock.Anything, mock.Anything)
	})

	t.Run("unknown handle returns 404", func(t *testing.T) {
		userRepo := new(mocks.UserRepositoryMock)
		handler := NewUserHandler(userRepo, new(mocks.PostRepositoryMock), new(mocks.FollowRepositoryMock))

		userRepo.On("GetUserByUsername", "ghost").Return(nil, repositories.ErrNotFound)

		c, _ := newTestContext(http.MethodGet, "/users/ghost", "")
		c.SetParamNames("username")
		c.SetParamValues("ghost")
		asUser(c, 1, "alice")

		err := handler.GetByHandle(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httpCode(err))
	})
}
