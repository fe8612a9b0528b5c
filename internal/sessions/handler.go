package sessions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner-backend/internal/shared/server/middleware"
	"planner-backend/internal/shared/server/respond"
)

// ChatHistory lists a session's chat turns, oldest first.
type ChatHistory interface {
	ListTurns(ctx context.Context, sessionID string) ([]ChatTurn, error)
}

// PlannerHistory lists a session's planner milestones, oldest first.
type PlannerHistory interface {
	ListMilestones(ctx context.Context, sessionID string) ([]Milestone, error)
}

// Handler serves session history and timeline reads.
type Handler struct {
	Svc     *Service
	Chat    ChatHistory
	Planner PlannerHistory
}

func NewHandler(svc *Service, chat ChatHistory, planner PlannerHistory) *Handler {
	return &Handler{Svc: svc, Chat: chat, Planner: planner}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sessions/:id", h.history)
	rg.GET("/sessions/:id/timeline", h.timeline)
}

func (h *Handler) authorize(c *gin.Context) (Session, bool) {
	sess, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
		} else {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load session", nil)
		}
		return Session{}, false
	}
	middleware.SetSessionID(c, sess.ID)
	return sess, true
}

func (h *Handler) history(c *gin.Context) {
	sess, ok := h.authorize(c)
	if !ok {
		return
	}
	turns, err := h.Chat.ListTurns(c.Request.Context(), sess.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
		return
	}
	items := make([]HistoryItem, 0, len(turns))
	for _, t := range turns {
		items = append(items, HistoryItem{Question: t.Question, Answer: t.Answer, CreatedAt: t.CreatedAt})
	}
	respond.OK(c, HistoryResponse{SessionID: sess.ID, History: items})
}

func (h *Handler) timeline(c *gin.Context) {
	sess, ok := h.authorize(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	turns, err := h.Chat.ListTurns(ctx, sess.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
		return
	}
	milestones, err := h.Planner.ListMilestones(ctx, sess.ID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load planner history", nil)
		return
	}
	respond.OK(c, TimelineResponse{SessionID: sess.ID, Timeline: Merge(turns, milestones)})
}
