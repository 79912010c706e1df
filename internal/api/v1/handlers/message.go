package handlers

import (
	"taskflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ListMessages mengembalikan semua pesan, atau pesan satu task jika ?taskId= diisi.
func (h *Handler) ListMessages(c *fiber.Ctx) error {
	messages, err := h.svc.Messages.List(c.UserContext(), c.Query("taskId"))
	if err != nil {
		return fail(c, err, "Error fetching messages")
	}
	return c.JSON(messages)
}

func (h *Handler) CreateMessage(c *fiber.Ctx) error {
	var req services.CreateMessageInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Bad request in create message")
	}
	message, err := h.svc.Messages.Create(c.UserContext(), actor(c), req)
	if err != nil {
		return fail(c, err, "Error creating message")
	}
	return c.JSON(message)
}
