package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// PurchaseHandler 处理采购相关的 HTTP 请求
type PurchaseHandler struct {
	svc domain.PurchaseService
}

func NewPurchaseHandler(svc domain.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{svc: svc}
}

// List 采购列表
// GET /api/purchases?page=&limit=&search=
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)
	items, total, err := h.svc.ListPurchases(c.UserContext(), q)
	if err != nil {
		return handleError(c, err)
	}
	return SendPaginatedResponse(c, "purchases", items, q, total)
}

// Get GET /api/purchases/:id
func (h *PurchaseHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "purchase")
	if err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.GetPurchase(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/purchases
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var req domain.PurchaseInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.CreatePurchase(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update PUT /api/purchases/:id
func (h *PurchaseHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "purchase")
	if err != nil {
		return handleError(c, err)
	}
	var req domain.PurchaseInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.UpdatePurchase(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Delete DELETE /api/purchases/:id
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "purchase")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.svc.DeletePurchase(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase deleted"})
}
