package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medcareclinic/clinic-ai-assistant/internal/dialogue"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// ChatHandler exposes the conversational endpoints.
type ChatHandler struct {
	dialogue *dialogue.Service
	logger   *logging.Logger
}

// NewChatHandler creates the chat handler.
func NewChatHandler(svc *dialogue.Service, logger *logging.Logger) *ChatHandler {
	if svc == nil {
		panic("handlers: dialogue service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ChatHandler{dialogue: svc, logger: logger}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string              `json:"session_id"`
	Reply     string              `json:"reply"`
	Result    dialogue.TurnResult `json:"result"`
}

// Message handles POST /chat. A missing session_id starts a new session.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := h.dialogue.ProcessTurn(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.logger.Error("turn processing failed", "session_id", req.SessionID, "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: req.SessionID,
		Reply:     result.Reply,
		Result:    result,
	})
}

// NewSession handles GET /session/new. The session itself is created lazily
// on the first turn; this just hands the widget an id to converse under.
func (h *ChatHandler) NewSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"session_id": uuid.NewString()})
}

// History handles GET /chat/{sessionID}/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, found, err := h.dialogue.History(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("history lookup failed", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Reset handles POST /chat/{sessionID}/reset.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.dialogue.Reset(r.Context(), sessionID); err != nil {
		h.logger.Error("session reset failed", "session_id", sessionID, "error", err)
		http.Error(w, "failed to reset session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "session_id": sessionID})
}
