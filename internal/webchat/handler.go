// Package webchat serves the browser chat widget over WebSocket.
package webchat

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/medcareclinic/clinic-ai-assistant/internal/dialogue"
	"github.com/medcareclinic/clinic-ai-assistant/internal/session"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

// Handler manages web chat connections and messages.
type Handler struct {
	dialogue *dialogue.Service
	logger   *logging.Logger

	mu    sync.RWMutex
	conns map[string]*wsConn // sessionID -> active connection
}

type wsConn struct {
	conn *websocket.Conn
	done chan struct{}
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "ping"
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Action    *dialogue.Action `json:"action,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified transcript entry for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(svc *dialogue.Service, logger *logging.Logger) *Handler {
	if svc == nil {
		panic("webchat: dialogue service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		dialogue: svc,
		logger:   logger,
		conns:    make(map[string]*wsConn),
	}
}

// generateSessionID creates a random session identifier.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{
		Type:      "session",
		SessionID: sessionID,
	})

	// Replay the transcript for a resumed session.
	if sess, found, err := h.dialogue.History(r.Context(), sessionID); err == nil && found && len(sess.Transcript) > 0 {
		history := make([]HistoryMessage, 0, len(sess.Transcript))
		for _, e := range sess.Transcript {
			history = append(history, HistoryMessage{
				Role:      e.Role,
				Text:      e.Content,
				Timestamp: e.At.Format(time.RFC3339),
			})
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: history})
	}

	wsc := &wsConn{conn: conn, done: make(chan struct{})}
	h.mu.Lock()
	h.conns[sessionID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.conns[sessionID] == wsc {
			delete(h.conns, sessionID)
		}
		h.mu.Unlock()
		close(wsc.done)
	}()

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		h.processMessage(r.Context(), sessionID, msg.Text)
	}
}

func (h *Handler) processMessage(ctx context.Context, sessionID, text string) {
	h.sendToSession(sessionID, OutboundMessage{Type: "typing"})

	result, err := h.dialogue.ProcessTurn(ctx, sessionID, text)
	if err != nil {
		h.logger.Error("webchat: turn processing failed", "session_id", sessionID, "error", err)
		h.sendToSession(sessionID, OutboundMessage{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		})
		return
	}

	h.sendToSession(sessionID, OutboundMessage{
		Type:      "message",
		Role:      session.RoleAssistant,
		Text:      result.Reply,
		Action:    &result.Action,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) sendToSession(sessionID string, msg OutboundMessage) {
	h.mu.RLock()
	wsc, ok := h.conns[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	_ = websocket.JSON.Send(wsc.conn, msg)
}
