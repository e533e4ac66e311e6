package dashboard

import (
	"github.com/Kyz7/wip/internal/database"
	"github.com/Kyz7/wip/internal/response"
	"github.com/gofiber/fiber/v2"
)

func AdminLogHandler(c *fiber.Ctx) error {
	page := response.ClampPage(c.QueryInt("page", 1))
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	logs, total, err := ListAdminLogs(database.DB, page, limit)
	if err != nil {
		return response.InternalError(c, "Failed to load admin log")
	}

	return response.SuccessWithMeta(c, logs, response.CalculateMeta(page, limit, total), "Admin log retrieved successfully")
}

func IntegrityErrorHandler(c *fiber.Ctx) error {
	report, err := IntegrityErrors(database.DB)
	if err != nil {
		return response.InternalError(c, "Failed to build integrity report")
	}

	return response.Success(c, report, "Integrity report generated")
}
