package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/bitbrkr/backend/internal/events"
	"github.com/bitbrkr/backend/internal/observability"
	"github.com/bitbrkr/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	postRepository repositories.PostRepository
	publisher      events.Publisher
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postRepo repositories.PostRepository, publisher events.Publisher) *LikeHandler {
	return &LikeHandler{postRepository: postRepo, publisher: publisher}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/like", h.ToggleLike)
}

// ToggleLike likes a post, or removes the caller's existing like. Both
// arms are conditional updates at the store, so two simultaneous likes
// by the same user cannot produce a duplicate entry.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	like, err := h.postRepository.AddLike(c.Request().Context(), postID, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			observability.EngagementOps.WithLabelValues("like", "missing").Inc()
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		if errors.Is(err, repositories.ErrAlreadyExists) {
			// Second tap removes the like.
			if err := h.postRepository.RemoveLike(c.Request().Context(), postID, currentUserID); err != nil &&
				!errors.Is(err, repositories.ErrNotFound) {
				observability.EngagementOps.WithLabelValues("unlike", "error").Inc()
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			observability.EngagementOps.WithLabelValues("unlike", "ok").Inc()
			return c.JSON(http.StatusOK, echo.Map{"liked": false})
		}
		observability.EngagementOps.WithLabelValues("like", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	observability.EngagementOps.WithLabelValues("like", "ok").Inc()

	if post, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err == nil {
		_ = h.publisher.Publish(c.Request().Context(), events.LikeCreated, events.Event{
			ActorID:     currentUserID,
			RecipientID: post.AuthorID,
			TargetID:    postID,
			OccurredAt:  time.Now(),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{"liked": true, "like": like})
}
