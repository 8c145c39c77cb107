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

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	publisher        events.Publisher
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, publisher events.Publisher) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		publisher:        publisher,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/follow/:username", h.FollowUser)
	g.POST("/unfollow/:username", h.UnfollowUser)
	g.GET("/follows", h.GetFollows)
}

// FollowUser creates the follow edge toward the target user. Following
// someone already followed succeeds without creating a second edge;
// the end state is what the caller asked for either way.
func (h *FollowHandler) FollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	err = h.followRepository.CreateFollow(currentUserID, target.ID)
	switch {
	case errors.Is(err, repositories.ErrSelfReference):
		observability.FollowOps.WithLabelValues("follow", "rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	case errors.Is(err, repositories.ErrAlreadyExists):
		// Idempotent: already following.
		observability.FollowOps.WithLabelValues("follow", "noop").Inc()
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
	case err != nil:
		observability.FollowOps.WithLabelValues("follow", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	observability.FollowOps.WithLabelValues("follow", "ok").Inc()
	_ = h.publisher.Publish(c.Request().Context(), events.FollowCreated, events.Event{
		ActorID:     currentUserID,
		RecipientID: target.ID,
		OccurredAt:  time.Now(),
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": true}})
}

// UnfollowUser removes the follow edge. Unfollowing someone not
// followed is a successful no-op.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	target, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.followRepository.DeleteFollow(currentUserID, target.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			observability.FollowOps.WithLabelValues("unfollow", "noop").Inc()
			return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
		}
		observability.FollowOps.WithLabelValues("unfollow", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	observability.FollowOps.WithLabelValues("unfollow", "ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"following": false}})
}

// GetFollows returns both edge lists of the authenticated user with
// peers resolved to profile summaries.
func (h *FollowHandler) GetFollows(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	followers, err := h.followRepository.GetFollowers(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.followRepository.GetFollowing(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"followers": followers,
		"following": following,
	})
}
