package handlers

import (
	"taskflow/internal/apierror"
	"taskflow/internal/policy"
	myws "taskflow/internal/websocket"
	"taskflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// EventsAuth memeriksa upgrade websocket dan token di query ?token=.
// Browser tidak bisa mengirim header Authorization saat membuka websocket.
func (h *Handler) EventsAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		return apierror.Respond(c, apierror.Unauthorized("Missing auth"))
	}
	claims, err := h.issuer.Verify(token)
	if err != nil {
		logger.SecurityLogger.Warn("Invalid event stream token", zap.String("ip", c.IP()), zap.Error(err))
		return apierror.Respond(c, apierror.Unauthorized("Invalid token"))
	}
	if !policy.Allowed(claims.Role, policy.StreamEvents) {
		return apierror.Respond(c, apierror.Forbidden("Forbidden"))
	}
	c.Locals("userID", claims.ID)
	return c.Next()
}

// Events mendaftarkan koneksi ke hub sampai klien menutupnya. Pesan dari
// klien diabaikan.
func (h *Handler) Events() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userID").(string)
		client := &myws.Client{Conn: conn, UserID: userID}
		if !h.hub.Join(client) {
			_ = conn.Close()
			return
		}
		defer h.hub.Leave(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
