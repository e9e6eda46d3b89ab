package live

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Feed is the process-wide hub porter dashboards subscribe to. Rooms are
// keyed by hostel ID.
var Feed = NewHub()

// Event actions pushed to connected porters.
const (
	ActionReserved  = "reserved"
	ActionCheckedIn = "checked_in"
	ActionReleased  = "released"
)

// Event is the JSON payload broadcast on every reservation transition.
type Event struct {
	Action     string `json:"action"`
	HostelID   string `json:"hostelid"`
	StudentID  string `json:"studentid"`
	RoomNumber string `json:"room,omitempty"`
	BunkNumber string `json:"bunk,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

type broadcastMsg struct {
	Room string
	Data []byte
}

type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for room, conns := range h.rooms {
				for c := range conns {
					close(c.Send)
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}

// BroadcastEvent pushes a reservation event to every porter watching the
// hostel. Fire-and-forget.
func (h *Hub) BroadcastEvent(event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("live: marshal event failed: %v", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Room: event.HostelID, Data: data}:
	case <-h.quit:
	}
}
