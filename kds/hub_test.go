package kds

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restaurant-pos/models"
	"restaurant-pos/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newHubServer(t *testing.T) (*Hub, *websocket.Conn, *gorm.DB) {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.MenuItem{},
		&models.Section{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemModifier{},
		&models.DeliveryInfo{},
	))

	hub := NewHub(db)
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, "kitchen")
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hub, conn, db
}

func readMessage(t *testing.T, conn *websocket.Conn, out interface{}) {
	t.Helper()
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestGetOrdersReturnsOpenOrdersSnapshot(t *testing.T) {
	_, conn, db := newHubServer(t)

	open := models.Order{Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusUnpaid, DiningMode: models.DiningModeDineIn}
	require.NoError(t, db.Create(&open).Error)
	cooking := models.Order{Status: models.OrderStatusProcessing, PaymentStatus: models.PaymentStatusUnpaid, DiningMode: models.DiningModeDineIn}
	require.NoError(t, db.Create(&cooking).Error)
	done := models.Order{Status: models.OrderStatusCompleted, PaymentStatus: models.PaymentStatusPaid, DiningMode: models.DiningModeDineIn}
	require.NoError(t, db.Create(&done).Error)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": TypeGetOrders}))

	var reply struct {
		Type   string         `json:"type"`
		Orders []models.Order `json:"orders"`
	}
	readMessage(t, conn, &reply)

	assert.Equal(t, TypeOrdersList, reply.Type)
	require.Len(t, reply.Orders, 2)
	// Oldest first, completed excluded.
	assert.Equal(t, open.ID, reply.Orders[0].ID)
	assert.Equal(t, cooking.ID, reply.Orders[1].ID)
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	hub, conn, _ := newHubServer(t)

	// A get_orders round trip first, so registration has definitely landed
	// before the broadcast is sent.
	require.NoError(t, conn.WriteJSON(map[string]string{"type": TypeGetOrders}))
	var ack struct {
		Type string `json:"type"`
	}
	readMessage(t, conn, &ack)
	require.Equal(t, TypeOrdersList, ack.Type)

	hub.BroadcastOrderUpdate(models.Order{
		ID:     7,
		Status: models.OrderStatusProcessing,
		Total:  31.50,
	})

	var update struct {
		Type  string       `json:"type"`
		Order models.Order `json:"order"`
	}
	readMessage(t, conn, &update)

	assert.Equal(t, TypeOrderUpdate, update.Type)
	assert.Equal(t, uint(7), update.Order.ID)
	assert.Equal(t, models.OrderStatusProcessing, update.Order.Status)
	assert.Equal(t, 31.50, update.Order.Total)
}

func TestUnknownMessageTypesAreIgnored(t *testing.T) {
	_, conn, _ := newHubServer(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "subscribe"}))
	require.NoError(t, conn.WriteJSON(map[string]string{"type": TypeGetOrders}))

	// Only the get_orders request produces a reply.
	var reply struct {
		Type string `json:"type"`
	}
	readMessage(t, conn, &reply)
	assert.Equal(t, TypeOrdersList, reply.Type)
}

func TestSlowClientsAreEvicted(t *testing.T) {
	utils.InitLogger()
	hub := NewHub(nil)
	go hub.Run()

	healthy := &Client{hub: hub, send: make(chan []byte, 2)}
	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	slow.send <- []byte("backlog") // queue already at capacity
	hub.register <- healthy
	hub.register <- slow

	hub.BroadcastOrderUpdate(models.Order{ID: 1})
	hub.BroadcastOrderUpdate(models.Order{ID: 2})

	// The healthy client sees both events; once the second arrives, the
	// first broadcast pass is over and the full slow client was dropped.
	<-healthy.send
	<-healthy.send

	assert.Equal(t, []byte("backlog"), <-slow.send)
	select {
	case _, ok := <-slow.send:
		assert.False(t, ok, "slow client send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("slow client was never dropped")
	}
}

func TestDefaultHubNilSafe(t *testing.T) {
	hubMu.Lock()
	saved := defaultHub
	defaultHub = nil
	hubMu.Unlock()
	defer func() {
		hubMu.Lock()
		defaultHub = saved
		hubMu.Unlock()
	}()

	// Must not panic with no hub wired.
	BroadcastOrderUpdate(models.Order{ID: 1})
}
