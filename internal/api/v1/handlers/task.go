package handlers

import (
	"encoding/json"

	"taskflow/internal/apierror"
	"taskflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ListTasks mengembalikan semua task, terbaru lebih dulu.
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.svc.Tasks.List(c.UserContext())
	if err != nil {
		return fail(c, err, "Error fetching tasks")
	}
	return c.JSON(tasks)
}

func (h *Handler) GetTask(c *fiber.Ctx) error {
	task, err := h.svc.Tasks.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Error fetching task")
	}
	return c.JSON(task)
}

func (h *Handler) CreateTask(c *fiber.Ctx) error {
	var req services.CreateTaskInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Bad request in create task")
	}
	task, err := h.svc.Tasks.Create(c.UserContext(), actor(c), req)
	if err != nil {
		return fail(c, err, "Error creating task")
	}
	return c.JSON(task)
}

// PatchTask menerapkan sebagian field; field yang boleh diubah tergantung role.
func (h *Handler) PatchTask(c *fiber.Ctx) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return fail(c, apierror.BadRequest("Bad request"), "Bad request in update task")
	}
	task, err := h.svc.Tasks.Update(c.UserContext(), actor(c), c.Params("id"), fields)
	if err != nil {
		return fail(c, err, "Error updating task")
	}
	return c.JSON(task)
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	if err := h.svc.Tasks.Delete(c.UserContext(), actor(c), c.Params("id")); err != nil {
		return fail(c, err, "Error deleting task")
	}
	return ok(c)
}
