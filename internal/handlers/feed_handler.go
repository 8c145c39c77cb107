package handlers

import (
	"errors"
	"net/http"

	"github.com/bitbrkr/backend/internal/models"
	"github.com/bitbrkr/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FeedHandler composes the three feed views from posts and their authors.
type FeedHandler struct {
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
	followRepository repositories.FollowRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, followRepo repositories.FollowRepository) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		userRepository:   userRepo,
		followRepository: followRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetPublicFeed)
	g.GET("/feed/follows", h.GetFollowingFeed)
	g.GET("/feed/:username", h.GetUserFeed)
}

// EnrichedPost is a post with its author and comment authors resolved
// to profile summaries.
type EnrichedPost struct {
	models.Post
	Author         models.UserCompact          `json:"author"`
	CommentAuthors map[string]models.UserCompact `json:"comment_authors,omitempty"`
}

// enrichPosts resolves every author and comment author referenced by
// posts with one batched user lookup. CommentAuthors is keyed by
// comment ID.
func enrichPosts(posts []models.Post, userRepo repositories.UserRepository) ([]EnrichedPost, error) {
	idSet := make(map[uint]bool)
	for _, p := range posts {
		idSet[p.AuthorID] = true
		for _, cm := range p.Comments {
			idSet[cm.UserID] = true
		}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	userMap, err := userRepo.GetUsersByIDs(ids)
	if err != nil {
		return nil, err
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		author := userMap[p.AuthorID]
		ep := EnrichedPost{Post: p, Author: author.ToCompact()}
		if len(p.Comments) > 0 {
			ep.CommentAuthors = make(map[string]models.UserCompact, len(p.Comments))
			for _, cm := range p.Comments {
				u := userMap[cm.UserID]
				ep.CommentAuthors[cm.ID.Hex()] = u.ToCompact()
			}
		}
		enriched[i] = ep
	}
	return enriched, nil
}

// GetPublicFeed returns all public posts, newest first.
func (h *FeedHandler) GetPublicFeed(c echo.Context) error {
	posts, err := h.postRepository.GetPublicPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched, err := enrichPosts(posts, h.userRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": enriched})
}

// GetFollowingFeed returns posts by everyone the authenticated user
// follows. A follow edge implies visibility, so the post's own public
// flag is intentionally not consulted here.
func (h *FeedHandler) GetFollowingFeed(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByAuthors(c.Request().Context(), followingIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched, err := enrichPosts(posts, h.userRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": enriched})
}

// GetUserFeed returns all posts by one author for profile display,
// regardless of visibility. Profile-level authorization is handled by
// the rendering layer.
func (h *FeedHandler) GetUserFeed(c echo.Context) error {
	user, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByAuthor(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched, err := enrichPosts(posts, h.userRepository)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": enriched})
}
