package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// SaleHandler 处理销售相关的 HTTP 请求
type SaleHandler struct {
	svc domain.SaleService
}

func NewSaleHandler(svc domain.SaleService) *SaleHandler {
	return &SaleHandler{svc: svc}
}

// List 销售列表
// GET /api/sales?page=&limit=&search=
func (h *SaleHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)
	items, total, err := h.svc.ListSales(c.UserContext(), q)
	if err != nil {
		return handleError(c, err)
	}
	return SendPaginatedResponse(c, "sales", items, q, total)
}

// Get GET /api/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.GetSale(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var req domain.SaleInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.CreateSale(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update PUT /api/sales/:id
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return handleError(c, err)
	}
	var req domain.SaleInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.UpdateSale(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Delete DELETE /api/sales/:id
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "sale")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.svc.DeleteSale(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Sale deleted"})
}
