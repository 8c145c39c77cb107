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

// ThreadHandler handles direct-message thread HTTP requests
type ThreadHandler struct {
	threadRepository repositories.ThreadRepository
	userRepository   repositories.UserRepository
	publisher        events.Publisher
}

// NewThreadHandler creates a new ThreadHandler
func NewThreadHandler(threadRepo repositories.ThreadRepository, userRepo repositories.UserRepository, publisher events.Publisher) *ThreadHandler {
	return &ThreadHandler{
		threadRepository: threadRepo,
		userRepository:   userRepo,
		publisher:        publisher,
	}
}

// RegisterThreadRoutes registers thread-related routes
func (h *ThreadHandler) RegisterThreadRoutes(g *echo.Group) {
	g.GET("/inbox", h.GetInbox)
	g.POST("/threads/:username", h.StartThread)
	g.GET("/threads/:thread_id", h.GetThread)
	g.POST("/threads/:thread_id/messages", h.PostMessage)
}

// GetInbox lists the authenticated user's threads with peers resolved.
func (h *ThreadHandler) GetInbox(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	threads, err := h.threadRepository.ListThreads(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	peerIDs := make([]uint, 0, len(threads))
	for _, t := range threads {
		peerIDs = append(peerIDs, t.Peer(currentUserID))
	}
	peers, err := h.userRepository.GetUsersByIDs(peerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	inbox := make([]models.ThreadSummary, len(threads))
	for i, t := range threads {
		peer := peers[t.Peer(currentUserID)]
		inbox[i] = models.ThreadSummary{
			ThreadID:     t.ID.Hex(),
			Peer:         peer.ToCompact(),
			MessageCount: len(t.Messages),
			CreatedAt:    t.CreatedAt,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"inbox": inbox})
}

// StartThread finds or creates the thread between the authenticated
// user and :username. Repeated or concurrent calls converge on one
// thread for the pair.
func (h *ThreadHandler) StartThread(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	recipient, err := h.userRepository.GetUserByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Recipient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	thread, err := h.threadRepository.GetOrCreateThread(c.Request().Context(), currentUserID, recipient.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrSelfReference) {
			observability.MessageOps.WithLabelValues("start_thread", "rejected").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot start a chat with yourself")
		}
		observability.MessageOps.WithLabelValues("start_thread", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	observability.MessageOps.WithLabelValues("start_thread", "ok").Inc()
	return c.JSON(http.StatusOK, h.resolveThread(thread))
}

// GetThread returns a thread and its messages, senders resolved.
// Non-participants are rejected.
func (h *ThreadHandler) GetThread(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	thread, err := h.threadRepository.GetThread(c.Request().Context(), c.Param("thread_id"), currentUserID)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
	case errors.Is(err, repositories.ErrNotParticipant):
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this chat")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.resolveThread(thread))
}

// PostMessage appends a message to a thread.
func (h *ThreadHandler) PostMessage(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	threadID := c.Param("thread_id")

	var req models.AppendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.threadRepository.AppendMessage(c.Request().Context(), threadID, currentUserID, req.Text)
	switch {
	case errors.Is(err, repositories.ErrEmptyMessage):
		observability.MessageOps.WithLabelValues("append", "rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "Message text is required")
	case errors.Is(err, repositories.ErrNotFound):
		observability.MessageOps.WithLabelValues("append", "missing").Inc()
		return echo.NewHTTPError(http.StatusNotFound, "Chat not found")
	case errors.Is(err, repositories.ErrNotParticipant):
		observability.MessageOps.WithLabelValues("append", "forbidden").Inc()
		return echo.NewHTTPError(http.StatusForbidden, "You are not a member of this chat")
	case err != nil:
		observability.MessageOps.WithLabelValues("append", "error").Inc()
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	observability.MessageOps.WithLabelValues("append", "ok").Inc()

	if thread, err := h.threadRepository.GetThread(c.Request().Context(), threadID, currentUserID); err == nil {
		_ = h.publisher.Publish(c.Request().Context(), events.MessageCreated, events.Event{
			ActorID:     currentUserID,
			RecipientID: thread.Peer(currentUserID),
			TargetID:    threadID,
			OccurredAt:  time.Now(),
		})
	}

	return c.JSON(http.StatusCreated, msg)
}

// resolvedThread is a thread with every sender resolved for display.
type resolvedThread struct {
	ThreadID     string                   `json:"thread_id"`
	Participants []models.UserCompact     `json:"participants"`
	Messages     []models.ResolvedMessage `json:"messages"`
}

func (h *ThreadHandler) resolveThread(thread *models.Thread) resolvedThread {
	users, err := h.userRepository.GetUsersByIDs(thread.ParticipantIDs)
	if err != nil {
		users = map[uint]models.User{}
	}

	out := resolvedThread{ThreadID: thread.ID.Hex()}
	for _, id := range thread.ParticipantIDs {
		u := users[id]
		out.Participants = append(out.Participants, u.ToCompact())
	}
	out.Messages = make([]models.ResolvedMessage, len(thread.Messages))
	for i, m := range thread.Messages {
		sender := users[m.SenderID]
		out.Messages[i] = models.ResolvedMessage{
			Sender: sender.ToCompact(),
			Text:   m.Text,
			SentAt: m.SentAt,
		}
	}
	return out
}
