package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planner-backend/internal/planner"
	"planner-backend/internal/sessions"
	"planner-backend/internal/shared/server/middleware"
	"planner-backend/internal/shared/server/respond"
)

const maxBodySize = 64 << 10

// Handler serves POST /chat for both chat and planner modes.
type Handler struct {
	Chat     *Service
	Planner  *planner.Service
	Sessions *sessions.Service
}

func NewHandler(chat *Service, plannerSvc *planner.Service, sessionSvc *sessions.Service) *Handler {
	return &Handler{Chat: chat, Planner: plannerSvc, Sessions: sessionSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.post)
}

func (h *Handler) post(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeChat
	}
	if mode == ModeChat && req.Message == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}

	sess, err := h.Sessions.Ensure(c.Request.Context(), userID, string(req.SessionID))
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
		case errors.Is(err, sessions.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load session", nil)
		}
		return
	}
	middleware.SetSessionID(c, sess.ID)

	if mode == ModePlanner {
		h.planner(c, userID, sess.ID, req)
		return
	}

	ans, err := h.Chat.Ask(c.Request.Context(), userID, sess.ID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to answer", nil)
		}
		return
	}
	respond.OK(c, ChatResponse{SessionID: sess.ID, Answer: ans.Text})
}

func (h *Handler) planner(c *gin.Context, userID, sessionID string, req chatRequest) {
	res, err := h.Planner.Turn(c.Request.Context(), planner.TurnInput{
		SessionID: sessionID,
		UserID:    userID,
		Message:   req.Message,
		OptionID:  req.OptionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "session not found", nil)
		case errors.Is(err, planner.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to run planner", nil)
		}
		return
	}
	middleware.SetPlannerStep(c, string(res.State.CurrentStep))
	respond.OK(c, planner.NewTurnResponse(res))
}
