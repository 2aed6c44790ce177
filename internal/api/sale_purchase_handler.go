package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// SalePurchaseHandler 处理销售采购关联相关的 HTTP 请求
type SalePurchaseHandler struct {
	svc domain.SalePurchaseService
}

func NewSalePurchaseHandler(svc domain.SalePurchaseService) *SalePurchaseHandler {
	return &SalePurchaseHandler{svc: svc}
}

// List 销售采购关联列表
// GET /api/salePurchases?page=&limit=&search=
func (h *SalePurchaseHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)
	items, total, err := h.svc.ListSalePurchases(c.UserContext(), q)
	if err != nil {
		return handleError(c, err)
	}
	return SendPaginatedResponse(c, "salePurchases", items, q, total)
}

// Get GET /api/salePurchases/:id
func (h *SalePurchaseHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "salePurchase")
	if err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.GetSalePurchase(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/salePurchases
func (h *SalePurchaseHandler) Create(c *fiber.Ctx) error {
	var req domain.SalePurchaseInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.CreateSalePurchase(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update PUT /api/salePurchases/:id
func (h *SalePurchaseHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "salePurchase")
	if err != nil {
		return handleError(c, err)
	}
	var req domain.SalePurchaseInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.UpdateSalePurchase(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Delete DELETE /api/salePurchases/:id
func (h *SalePurchaseHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "salePurchase")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.svc.DeleteSalePurchase(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "SalePurchase deleted"})
}
