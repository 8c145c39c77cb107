package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/bitbrkr/backend/internal/events"
	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/observability"
	"github.com/bitbrkr/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	postRepository repositories.PostRepository
	publisher      events.Publisher
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository, publisher events.Publisher) *CommentHandler {
	return &CommentHandler{postRepository: postRepo, publisher: publisher}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
}

// CreateComment appends a comment to a post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	postID := c.Param("post_id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.postRepository.AddComment(c.Request().Context(), postID, currentUserID, req.Text)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			observability.EngagementOps.WithLabelValues("comment", "missing").Inc()
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		observability.EngagementOps.WithLabelValues("comment", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	observability.EngagementOps.WithLabelValues("comment", "ok").Inc()

	if post, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err == nil {
		_ = h.publisher.Publish(c.Request().Context(), events.CommentCreated, events.Event{
			ActorID:     currentUserID,
			RecipientID: post.AuthorID,
			TargetID:    postID,
			OccurredAt:  time.Now(),
		})
	}

	return c.JSON(http.StatusCreated, comment)
}
