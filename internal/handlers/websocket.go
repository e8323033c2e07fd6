package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tablebook/tablebook-backend/internal/services"
)

// WebSocketHandler upgrades the connection and attaches the caller to the
// booking event hub.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")
		role := c.GetString("role")

		services.HandleWebSocket(hub, c.Writer, c.Request, userId, role)
	}
}
