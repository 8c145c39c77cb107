package handlers

import (
	"errors"
	"net/http"

	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/observability"
	"github.com/bitbrkr/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler aggregates the three unread sources into the
// notification view and applies mark-as-read transitions. Nothing is
// persisted here; the flags live on posts and follow edges.
type NotificationHandler struct {
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(postRepo repositories.PostRepository, followRepo repositories.FollowRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		postRepository:   postRepo,
		followRepository: followRepo,
		userRepository:   userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notes", h.CollectUnread)
	g.POST("/notes/read", h.MarkRead)
}

// CollectUnread gathers unread comments and likes on the caller's
// posts plus unread follower edges. Read-only: flags are cleared one
// at a time by MarkRead.
func (h *NotificationHandler) CollectUnread(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	ctx := c.Request().Context()

	commentPosts, err := h.postRepository.GetPostsWithUnreadComments(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	likePosts, err := h.postRepository.GetPostsWithUnreadLikes(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followerEdges, err := h.followRepository.GetUnreadFollowers(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notes := models.Notifications{
		Comments:  []models.UnreadComment{},
		Likes:     []models.UnreadLike{},
		Followers: []models.UnreadFollower{},
	}

	actorIDs := make(map[uint]bool)
	for _, p := range commentPosts {
		for _, cm := range p.Comments {
			if cm.Unread {
				actorIDs[cm.UserID] = true
			}
		}
	}
	for _, p := range likePosts {
		for _, l := range p.Likes {
			if l.Unread {
				actorIDs[l.UserID] = true
			}
		}
	}
	ids := make([]uint, 0, len(actorIDs))
	for id := range actorIDs {
		ids = append(ids, id)
	}
	actors, err := h.userRepository.GetUsersByIDs(ids)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for _, p := range commentPosts {
		for _, cm := range p.Comments {
			if !cm.Unread {
				continue
			}
			author := actors[cm.UserID]
			notes.Comments = append(notes.Comments, models.UnreadComment{
				PostID:    p.ID.Hex(),
				CommentID: cm.ID.Hex(),
				Author:    author.ToCompact(),
				Text:      cm.Text,
				CreatedAt: cm.CreatedAt,
			})
		}
	}
	for _, p := range likePosts {
		for _, l := range p.Likes {
			if !l.Unread {
				continue
			}
			liker := actors[l.UserID]
			notes.Likes = append(notes.Likes, models.UnreadLike{
				PostID: p.ID.Hex(),
				LikeID: l.ID.Hex(),
				Liker:  liker.ToCompact(),
			})
		}
	}
	for _, e := range followerEdges {
		notes.Followers = append(notes.Followers, models.UnreadFollower{
			Peer:       e.Peer,
			FollowedOn: e.FollowedOn,
		})
	}

	return c.JSON(http.StatusOK, notes)
}

// MarkRead acknowledges a single event, flipping its unread flag to
// false. Acknowledging an already-read event succeeds without change;
// acknowledging someone else's event is rejected.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Kind.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown notification kind")
	}

	ctx := c.Request().Context()
	var err error
	switch req.Kind {
	case models.NotificationComment:
		err = h.postRepository.MarkCommentRead(ctx, currentUserID, req.EventRef)
	case models.NotificationLike:
		err = h.postRepository.MarkLikeRead(ctx, currentUserID, req.EventRef)
	case models.NotificationFollower:
		var peer *models.User
		peer, err = h.userRepository.GetUserByUsername(req.EventRef)
		if err == nil {
			err = h.followRepository.MarkFollowerRead(currentUserID, peer.ID)
		}
	}

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		observability.EngagementOps.WithLabelValues("mark_read", "missing").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "Event not found")
	case errors.Is(err, repositories.ErrNotOwner):
		observability.EngagementOps.WithLabelValues("mark_read", "forbidden").Inc()
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this event")
	case err != nil:
		observability.EngagementOps.WithLabelValues("mark_read", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	observability.EngagementOps.WithLabelValues("mark_read", "ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
