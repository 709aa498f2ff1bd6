package handlers

import (
	"stockdesk/internal/export"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// sendCSV writes table as a CSV attachment.
func sendCSV(c *fiber.Ctx, filename string, table export.Table) error {
	body, err := table.CSV()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to export")
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.SendString(body)
}
