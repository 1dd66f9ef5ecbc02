package kds

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"restaurant-pos/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendQueueSize bounds the per-client backlog before eviction.
	sendQueueSize = 64
)

// Client is one subscribed websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	role string
	send chan []byte
}

// Serve registers the connection on the hub and starts its pumps. It blocks
// until the connection closes.
func (h *Hub) Serve(conn *websocket.Conn, role string) {
	client := &Client{
		hub:  h,
		conn: conn,
		role: role,
		send: make(chan []byte, sendQueueSize),
	}
	h.register <- client

	go client.writePump()
	client.readPump()
}

// readPump consumes client messages. The only request a client may make is
// get_orders, answered with a synchronous snapshot of the open-order list.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var req struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}

		if req.Type == TypeGetOrders {
			orders, err := c.hub.OpenOrders()
			if err != nil {
				utils.ErrorLogger.Printf("kds: load open orders: %v", err)
				continue
			}
			data, err := json.Marshal(ordersListMessage{Type: TypeOrdersList, Orders: orders})
			if err != nil {
				continue
			}
			select {
			case c.send <- data:
			default:
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
