package services

import (
	"encoding/json"
	"sync"

	"driverrating/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub fans submission events out to connected admin dashboard clients.
// Delivery is best-effort: a slow client gets disconnected rather than
// blocking the broadcast.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

type Client struct {
	hub      *Hub
	username string
	socket   *websocket.Conn
	send     chan []byte
}

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			logrus.Debugf("dashboard client registered (%s), %d connected", client.username, h.ClientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			logrus.Debugf("dashboard client unregistered (%s), %d connected", client.username, h.ClientCount())

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastResponseSubmitted notifies connected dashboards that a new
// response was recorded.
func (h *Hub) BroadcastResponseSubmitted(response *models.Response) {
	message := Message{
		Type: "response_submitted",
		Payload: map[string]interface{}{
			"response_id": response.ID,
			"survey_id":   response.SurveyID,
			"driver_id":   response.DriverID,
		},
	}

	data, err := json.Marshal(message)
	if err != nil {
		logrus.Errorf("error marshaling broadcast message: %v", err)
		return
	}

	h.broadcast <- data
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// RegisterClient attaches an upgraded websocket connection to the hub and
// starts its read/write pumps.
func (h *Hub) RegisterClient(conn *websocket.Conn, username string) *Client {
	client := &Client{
		hub:      h,
		username: username,
		socket:   conn,
		send:     make(chan []byte, 256),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, message, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Debugf("websocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		if msg.Type == "ping" {
			data, _ := json.Marshal(Message{Type: "pong", Payload: "pong"})
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}
