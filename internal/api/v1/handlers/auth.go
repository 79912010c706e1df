package handlers

import (
	"taskflow/internal/middleware"
	"taskflow/internal/services"
	"taskflow/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Login memverifikasi email dan password lalu mengembalikan token beserta user.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Bad request in login")
	}

	result, err := h.svc.Users.Login(c.UserContext(), req)
	if err != nil {
		logger.SecurityLogger.Warn("Failed login attempt", zap.String("email", req.Email), zap.String("ip", c.IP()))
		return fail(c, err, "Login failed")
	}

	logger.AuditLogger.Info("User logged in", zap.String("user_id", result.User.ID))
	return c.JSON(result)
}

// Me mengembalikan claims milik pemanggil.
func (h *Handler) Me(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	return c.JSON(fiber.Map{
		"id":    claims.ID,
		"email": claims.Email,
		"role":  claims.Role,
	})
}
