package webchat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/medcareclinic/clinic-ai-assistant/internal/availability"
	"github.com/medcareclinic/clinic-ai-assistant/internal/booking"
	"github.com/medcareclinic/clinic-ai-assistant/internal/catalog"
	"github.com/medcareclinic/clinic-ai-assistant/internal/dialogue"
	"github.com/medcareclinic/clinic-ai-assistant/internal/session"
	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	logger := logging.New("error")
	cat, err := catalog.NewStore([]catalog.Service{
		{ID: "cardiology_consultation", Name: "Cardiology Consultation", Category: catalog.CategoryCardiology, Price: 120, DurationMinutes: 45},
	})
	require.NoError(t, err)
	slots := availability.NewStore(availability.Table{
		"2025-03-10": {"09:00": true, "10:00": true},
	})
	bookings := booking.NewService(slots, booking.NewMemoryLedger(), logger)
	svc := dialogue.NewService(
		session.NewMemoryStore(0, logger),
		dialogue.NewAnalyzer(cat, slots),
		bookings,
		dialogue.StaticGenerator{},
		logger,
		nil,
		nil,
		200,
	)
	return NewHandler(svc, logger)
}

func newWSServer(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv
}

func dialWS(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/webchat/ws" + query
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func receive(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	var msg OutboundMessage
	require.NoError(t, websocket.JSON.Receive(conn, &msg))
	return msg
}

func TestWebSocketSessionAssignment(t *testing.T) {
	h := newTestHandler(t)
	srv := newWSServer(t, h)

	conn := dialWS(t, srv, "")
	msg := receive(t, conn)
	assert.Equal(t, "session", msg.Type)
	assert.NotEmpty(t, msg.SessionID)
}

func TestWebSocketPingPong(t *testing.T) {
	h := newTestHandler(t)
	srv := newWSServer(t, h)

	conn := dialWS(t, srv, "?session=sess-1")
	receive(t, conn) // session

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "ping"}))
	msg := receive(t, conn)
	assert.Equal(t, "pong", msg.Type)
}

func TestWebSocketMessageRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	srv := newWSServer(t, h)

	conn := dialWS(t, srv, "?session=sess-1")
	receive(t, conn) // session

	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{
		Type: "message",
		Text: "I've been having chest pain",
	}))

	typing := receive(t, conn)
	assert.Equal(t, "typing", typing.Type)

	reply := receive(t, conn)
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, session.RoleAssistant, reply.Role)
	require.NotNil(t, reply.Action)
	assert.Equal(t, dialogue.KindSuggestServices, reply.Action.Kind)
	assert.Contains(t, reply.Text, "Cardiology Consultation")
}

func TestWebSocketHistoryReplay(t *testing.T) {
	h := newTestHandler(t)
	srv := newWSServer(t, h)

	conn := dialWS(t, srv, "?session=sess-1")
	receive(t, conn) // session
	require.NoError(t, websocket.JSON.Send(conn, InboundMessage{Type: "message", Text: "hello there"}))
	receive(t, conn) // typing
	receive(t, conn) // reply
	conn.Close()

	// A resumed session replays the transcript.
	conn2 := dialWS(t, srv, "?session=sess-1")
	receive(t, conn2) // session
	history := receive(t, conn2)
	assert.Equal(t, "history", history.Type)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, session.RolePatient, history.Messages[0].Role)
}
