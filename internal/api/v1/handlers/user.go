package handlers

import (
	"taskflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ListUsers mengembalikan semua user tanpa password hash.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.svc.Users.List(c.UserContext())
	if err != nil {
		return fail(c, err, "Error fetching users")
	}
	return c.JSON(users)
}

// Signup adalah registrasi mandiri; role selalu EMPLOYEE.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req services.SignupInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Bad request in signup")
	}
	user, err := h.svc.Users.Signup(c.UserContext(), req)
	if err != nil {
		return fail(c, err, "Signup failed")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// CreateUser dipakai ADMIN untuk membuat user dengan role apa pun.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Bad request in create user")
	}
	user, err := h.svc.Users.Create(c.UserContext(), actor(c), req)
	if err != nil {
		return fail(c, err, "Error creating user")
	}
	return c.JSON(user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := h.svc.Users.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fail(c, err, "Error deleting user")
	}
	return ok(c)
}
