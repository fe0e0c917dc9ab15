package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/utils"
)

// Event types
const (
	EventAnnouncementCreated = "announcement_created"
	EventComplaintUpdated    = "complaint_updated"
	EventLeaveUpdated        = "leave_updated"
	EventBookingUpdated      = "booking_updated"
	EventInvoiceCreated      = "invoice_created"
	EventInvoiceUpdated      = "invoice_updated"
	EventRegistrationCreated = "registration_created"
)

// writeWait bounds a single push to one client.
var writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscriber identifies who sits behind a connection.
type Subscriber struct {
	Role        string
	HostelBlock string
	PrincipalID uint
}

type client struct {
	sub Subscriber
	mu  sync.Mutex
}

// Hub holds the live websocket clients.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.RWMutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn, sub Subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{sub: sub}
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	delete(h.clients, conn)
	h.mutex.Unlock()
	conn.Close()
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// BroadcastToBlock reaches everyone in block. The global block reaches all.
func (h *Hub) BroadcastToBlock(block string, msg Message) {
	if block == models.GlobalBlock {
		h.BroadcastAll(msg)
		return
	}
	h.broadcast(msg, func(s Subscriber) bool { return s.HostelBlock == block })
}

func (h *Hub) BroadcastAll(msg Message) {
	h.broadcast(msg, func(Subscriber) bool { return true })
}

// SendToStudent reaches every connection of one student.
func (h *Hub) SendToStudent(studentID uint, msg Message) {
	h.broadcast(msg, func(s Subscriber) bool {
		return s.Role == utils.RoleStudent && s.PrincipalID == studentID
	})
}

// SendToBlockAdmins reaches the admins of block.
func (h *Hub) SendToBlockAdmins(block string, msg Message) {
	h.broadcast(msg, func(s Subscriber) bool {
		return s.Role == utils.RoleAdmin && s.HostelBlock == block
	})
}

func (h *Hub) broadcast(msg Message, match func(Subscriber) bool) {
	if h == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.RLock()
	targets := make(map[*websocket.Conn]*client)
	for conn, c := range h.clients {
		if match(c.sub) {
			targets[conn] = c
		}
	}
	h.mutex.RUnlock()

	var failed []*websocket.Conn
	for conn, c := range targets {
		c.mu.Lock()
		err := conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, data)
		}
		c.mu.Unlock()
		if err != nil {
			utils.ErrorLogger.Errorf("Error sending %s to client: %v", msg.Event, err)
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		h.Unregister(conn)
	}
}
