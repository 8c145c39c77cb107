package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bitbrkr/backend/internal/events"
	"github.com/bitbrkr/backend/internal/mocks"
	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/repositories"
)

func TestToggleLike(t *testing.T) {
	postID := primitive.NewObjectID()

	t.Run("first tap likes and notifies the author", func(t *testing.T) {
		postRepo := new(mocks.PostRepositoryMock)
		publisher := new(mocks.PublisherMock)
		handler := NewLikeHandler(postRepo, publisher)

		like := &models.Like{ID: primitive.NewObjectID(), UserID: 2, Unread: true}
		postRepo.On("AddLike", mock.Anything, postID.Hex(), uint(2)).Return(like, nil)
		postRepo.On("GetPostByID", mock.Anything, postID.Hex()).Return(&models.Post{ID: postID, AuthorID: 1}, nil)
		publisher.On("Publish", mock.Anything, events.LikeCreated, mock.MatchedBy(func(ev events.Event) bool {
			return ev.ActorID == 2 && ev.RecipientID == 1 && ev.TargetID == postID.Hex()
		})).Return(nil)

		c, rec := newTestContext(http.MethodPost, "/posts/"+postID.Hex()+"/like", "")
		c.SetParamNames("post_id")
		c.SetParamValues(postID.Hex())
		asUser(c, 2, "bob")

		require.NoError(t, handler.ToggleLike(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"liked":true`)
		publisher.AssertExpectations(t)
	})

	t.Run("second tap removes the like", func(t *testing.T) {
		postRepo := new(mocks.PostRepositoryMock)
		publisher := new(mocks.PublisherMock)
		handler := NewLikeHandler(postRepo, publisher)

		postRepo.On("AddLike", mock.Anything, postID.Hex(), uint(2)).Return(nil, repositories.ErrAlreadyExists)
		postRepo.On("RemoveLike", mock.Anything, postID.Hex(), uint(2)).Return(nil)

		c, rec := newTestContext(http.MethodPost, "/posts/"+postID.Hex()+"/like", "")
		c.SetParamNames("post_id")
		c.SetParamValues(postID.Hex())
		asUser(c, 2, "bob")

		require.NoError(t, handler.ToggleLike(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"liked":false`)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing post returns 404", func(t *testing.T) {
		postRepo := new(mocks.PostRepositoryMock)
		handler := NewLikeHandler(postRepo, new(mocks.PublisherMock))

		postRepo.On("AddLike", mock.Anything, postID.Hex(), uint(2)).Return(nil, repositories.ErrNotFound)

		c, _ := newTestContext(http.MethodPost, "/posts/"+postID.Hex()+"/like", "")
		c.SetParamNames("post_id")
		c.SetParamValues(postID.Hex())
		asUser(c, 2, "bob")

		err := handler.ToggleLike(c)
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, httpCode(err))
	})
}
