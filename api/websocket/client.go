package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/OldStager01/sepsis-watcher/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	patientID string
}

type IncomingMessage struct {
	Type      string `json:"type"`
	PatientID string `json:"patient_id,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, patientID string) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, hub.settings.ClientBuffer),
		patientID: patientID,
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	s := c.hub.settings
	c.conn.SetReadLimit(s.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(s.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(s.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	s := c.hub.settings
	ticker := time.NewTicker(s.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to current websocket frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(s.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		if msg.PatientID != "" {
			c.patientID = msg.PatientID
			logger.Infof("Client subscribed to patient: %s", msg.PatientID)
			c.sendConfirmation("subscribed", msg.PatientID)
		}
	case "unsubscribe":
		oldPatientID := c.patientID
		c.patientID = ""
		logger.Info("Client unsubscribed from patient")
		c.sendConfirmation("unsubscribed", oldPatientID)
	}
}

func (c *Client) sendConfirmation(action, patientID string) {
	confirmation := map[string]interface{}{
		"type":       "subscription_update",
		"action":     action,
		"patient_id": patientID,
		"timestamp":  time.Now(),
	}
	data, err := json.Marshal(confirmation)
	if err != nil {
		logger.Errorf("Failed to marshal confirmation: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		logger.Warn("Client send channel full, dropping confirmation")
	}
}

func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		patientID := c.Query("patient_id")
		client := NewClient(hub, conn, patientID)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
