package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"restaurant-pos/kds"
	"restaurant-pos/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrdersSocket -> join the orders room. Every connected client receives
// every order update; filtering happens client-side.
func OrdersSocket(c *gin.Context) {
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	hub := kds.DefaultHub()
	if hub == nil {
		// Lazily start the room if the process has not wired it yet.
		if db := utils.GetDB(); db != nil {
			hub = kds.InitHub(db)
		} else {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	hub.Serve(conn, roleStr)
}
