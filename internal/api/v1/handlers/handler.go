package handlers

import (
	"taskflow/internal/apierror"
	"taskflow/internal/auth"
	"taskflow/internal/middleware"
	"taskflow/internal/services"
	"taskflow/internal/websocket"
	"taskflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler menyimpan dependency yang dipakai oleh semua handler HTTP.
type Handler struct {
	svc    *services.Services
	issuer *auth.Issuer
	hub    *websocket.Hub
}

func New(svc *services.Services, issuer *auth.Issuer, hub *websocket.Hub) *Handler {
	return &Handler{svc: svc, issuer: issuer, hub: hub}
}

// actor membaca pemanggil dari claims yang disimpan UseToken.
func actor(c *fiber.Ctx) services.Actor {
	claims := middleware.Claims(c)
	if claims == nil {
		return services.Actor{}
	}
	return services.Actor{ID: claims.ID, Role: claims.Role}
}

// fail mencatat error lalu mengirim envelope error ke klien.
func fail(c *fiber.Ctx, err error, what string) error {
	status := apierror.Status(err)
	if status >= fiber.StatusInternalServerError {
		logger.ErrorLogger.Error(what, zap.String("url", c.OriginalURL()), zap.Error(err))
	} else {
		logger.RequestLogger.Info(what, zap.Int("status", status), zap.Error(err))
	}
	return apierror.Respond(c, err)
}

// parseBody mengisi dst dari body JSON; body kosong atau rusak adalah 400.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apierror.BadRequest("Bad request")
	}
	return nil
}

func ok(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}
