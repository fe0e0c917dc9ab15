package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
)

// startServer registers each connection with the subscriber described by its
// query string.
func startServer(t *testing.T, h *Hub) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id, _ := strconv.Atoi(r.URL.Query().Get("id"))
		h.Register(conn, Subscriber{
			Role:        r.URL.Query().Get("role"),
			HostelBlock: r.URL.Query().Get("block"),
			PrincipalID: uint(id),
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.Unregister(conn)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(conn *websocket.Conn) (string, bool) {
	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}
	var msg Message
	if json.Unmarshal(data, &msg) != nil {
		return "", false
	}
	return msg.Event, true
}

func TestHubRouting(t *testing.T) {
	h := New()
	srv := startServer(t, h)

	studentA := dial(t, srv, "role=student&block=A&id=1")
	adminA := dial(t, srv, "role=admin&block=A&id=1")
	studentB := dial(t, srv, "role=student&block=B&id=2")
	require.Eventually(t, func() bool { return h.Count() == 3 }, 2*time.Second, 10*time.Millisecond)

	h.BroadcastToBlock("A", Message{Event: EventAnnouncementCreated})
	ev, ok := readEvent(studentA)
	assert.True(t, ok)
	assert.Equal(t, EventAnnouncementCreated, ev)
	ev, _ = readEvent(adminA)
	assert.Equal(t, EventAnnouncementCreated, ev)

	// the first thing block B sees is its own invoice, not block A's announcement
	h.SendToStudent(2, Message{Event: EventInvoiceUpdated})
	ev, _ = readEvent(studentB)
	assert.Equal(t, EventInvoiceUpdated, ev)

	// likewise the admin skips the student-only invoice event
	h.SendToBlockAdmins("A", Message{Event: EventComplaintUpdated})
	ev, _ = readEvent(adminA)
	assert.Equal(t, EventComplaintUpdated, ev)

	// a timed out read leaves the connection unusable, so these go last
	_, ok = readEvent(studentA)
	assert.False(t, ok, "student A gets neither the invoice nor the admin event")
	_, ok = readEvent(studentB)
	assert.False(t, ok)
}

func TestHubGlobalBlock(t *testing.T) {
	h := New()
	srv := startServer(t, h)

	a := dial(t, srv, "role="+utils.RoleStudent+"&block=A&id=1")
	b := dial(t, srv, "role="+utils.RoleStudent+"&block=B&id=2")
	require.Eventually(t, func() bool { return h.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	h.BroadcastToBlock(models.GlobalBlock, Message{Event: EventAnnouncementCreated})
	_, ok := readEvent(a)
	assert.True(t, ok)
	_, ok = readEvent(b)
	assert.True(t, ok)
}

func TestNilHubIsNoop(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() {
		h.BroadcastAll(Message{Event: EventAnnouncementCreated})
		h.SendToStudent(1, Message{Event: EventInvoiceUpdated})
	})
}

func TestHubDropsStalledClient(t *testing.T) {
	prev := writeWait
	writeWait = 100 * time.Millisecond
	t.Cleanup(func() { writeWait = prev })

	h := New()
	srv := startServer(t, h)

	// never reads, so the socket buffers fill up
	dial(t, srv, "role=student&block=A&id=1")
	require.Eventually(t, func() bool { return h.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	payload := strings.Repeat("x", 1<<20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200 && h.Count() > 0; i++ {
			h.BroadcastToBlock("A", Message{Event: EventAnnouncementCreated, Data: payload})
		}
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}
	assert.Equal(t, 0, h.Count())
}
