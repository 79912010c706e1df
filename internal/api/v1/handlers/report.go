package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// TaskReport mengembalikan laporan task dalam format csv atau json (default).
func (h *Handler) TaskReport(c *fiber.Ctx) error {
	report, err := h.svc.Reports.Tasks(c.UserContext())
	if err != nil {
		return fail(c, err, "Error building task report")
	}
	if c.Query("format") == "csv" {
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.SendString(report.CSV())
	}
	return c.JSON(report)
}

func (h *Handler) DashboardSummary(c *fiber.Ctx) error {
	summary, err := h.svc.Reports.Dashboard(c.UserContext())
	if err != nil {
		return fail(c, err, "Error building dashboard")
	}
	return c.JSON(summary)
}

func (h *Handler) ListAudit(c *fiber.Ctx) error {
	records, err := h.svc.Audit.List(c.UserContext())
	if err != nil {
		return fail(c, err, "Error fetching audit log")
	}
	return c.JSON(records)
}
