// Package kds is the real-time fan-out channel for order state. Every
// connected display client (kitchen display, floor staff) joins one logical
// "orders" room and receives a snapshot of any order that changes. Delivery
// is best-effort: there is no ack, no replay of missed events, and a client
// that cannot keep up is dropped.
package kds

import (
	"encoding/json"
	"sync"

	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

// Message types on the wire.
const (
	TypeOrderUpdate = "order_update"
	TypeOrdersList  = "orders_list"
	TypeGetOrders   = "get_orders"
)

type orderUpdateMessage struct {
	Type  string       `json:"type"`
	Order models.Order `json:"order"`
}

type ordersListMessage struct {
	Type   string         `json:"type"`
	Orders []models.Order `json:"orders"`
}

// Hub owns the subscriber set. All membership changes and broadcasts go
// through its channels, so no mutable client list is shared across
// goroutines.
type Hub struct {
	db         *gorm.DB
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub(db *gorm.DB) *Hub {
	return &Hub{
		db:         db,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registration and broadcast events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than block the room.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// BroadcastOrderUpdate pushes an order snapshot to every subscriber. It is
// fire-and-forget and never fails the originating request.
func (h *Hub) BroadcastOrderUpdate(order models.Order) {
	data, err := json.Marshal(orderUpdateMessage{Type: TypeOrderUpdate, Order: order})
	if err != nil {
		utils.ErrorLogger.Printf("kds: marshal order update: %v", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		utils.ErrorLogger.Printf("kds: broadcast queue full, dropping order #%d update", order.ID)
	}
}

// OpenOrders returns all pending/processing orders, oldest first, fully
// loaded for the display payload.
func (h *Hub) OpenOrders() ([]models.Order, error) {
	var orders []models.Order
	err := h.db.
		Preload("Items.Modifiers.ModifierOption").
		Preload("Items.MenuItem").
		Preload("DeliveryInfo").
		Preload("Table").
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusProcessing}).
		Order("created_at asc").
		Find(&orders).Error
	return orders, err
}

var (
	defaultHub *Hub
	hubMu      sync.RWMutex
)

// InitHub creates the process-wide hub and starts its event loop.
func InitHub(db *gorm.DB) *Hub {
	hubMu.Lock()
	defer hubMu.Unlock()
	defaultHub = NewHub(db)
	go defaultHub.Run()
	return defaultHub
}

// DefaultHub returns the process-wide hub, nil before InitHub.
func DefaultHub() *Hub {
	hubMu.RLock()
	defer hubMu.RUnlock()
	return defaultHub
}

// BroadcastOrderUpdate notifies through the process-wide hub. A nil hub is a
// no-op so callers never have to care whether real-time delivery is wired.
func BroadcastOrderUpdate(order models.Order) {
	hub := DefaultHub()
	if hub == nil {
		return
	}
	hub.BroadcastOrderUpdate(order)
}
