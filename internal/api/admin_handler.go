package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

type AdminHandler struct {
	summary domain.SummaryService
}

func NewAdminHandler(summary domain.SummaryService) *AdminHandler {
	return &AdminHandler{summary: summary}
}

// Summary GET /api/admin/summary
func (h *AdminHandler) Summary(c *fiber.Ctx) error {
	s, err := h.summary.Summary(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(s)
}
