package live

import (
	"log"
	"net/http"

	"stayhub/middleware"
	"stayhub/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Client is one connected porter dashboard.
type Client struct {
	Conn   *websocket.Conn
	Send   chan []byte
	Room   string
	UserID string
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades a porter dashboard connection and subscribes it to the
// hostel's event stream. The token rides in the query string because
// browsers cannot set headers on websocket upgrades.
func ServeWS(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := r.URL.Query().Get("token")
		claims, err := middleware.ValidateJWT("Bearer " + token)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != models.RolePorter && claims.Role != models.RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		hostelID := ps.ByName("hostelId")
		if hostelID == "" {
			http.Error(w, "Missing hostel id", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("live: upgrade failed: %v", err)
			return
		}

		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 64),
			Room:   hostelID,
			UserID: claims.UserID,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump(hub)
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump exists only to detect the peer closing; the feed is one-way.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
