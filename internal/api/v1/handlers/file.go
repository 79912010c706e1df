package handlers

import (
	"taskflow/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadFile menyimpan file baru sebagai versi 1.
func (h *Handler) UploadFile(c *fiber.Ctx) error {
	var req services.UploadFileInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Bad request in upload file")
	}
	file, err := h.svc.Files.Upload(c.UserContext(), actor(c), req)
	if err != nil {
		return fail(c, err, "Error uploading file")
	}
	return c.JSON(file)
}

// AddFileVersion menambahkan versi baru dan menjadikannya konten saat ini.
func (h *Handler) AddFileVersion(c *fiber.Ctx) error {
	var req services.FileVersionInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err, "Bad request in update file")
	}
	file, err := h.svc.Files.AddVersion(c.UserContext(), actor(c), c.Params("id"), req)
	if err != nil {
		return fail(c, err, "Error updating file")
	}
	return c.JSON(file)
}

func (h *Handler) ListFiles(c *fiber.Ctx) error {
	files, err := h.svc.Files.List(c.UserContext())
	if err != nil {
		return fail(c, err, "Error fetching files")
	}
	return c.JSON(files)
}

func (h *Handler) GetFile(c *fiber.Ctx) error {
	file, err := h.svc.Files.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err, "Error fetching file")
	}
	return c.JSON(file)
}
