package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// SupplierHandler 处理供应商相关的 HTTP 请求
type SupplierHandler struct {
	svc domain.SupplierService
}

func NewSupplierHandler(svc domain.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// List 供应商列表
// GET /api/suppliers?page=&limit=&search=
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)
	items, total, err := h.svc.ListSuppliers(c.UserContext(), q)
	if err != nil {
		return handleError(c, err)
	}
	return SendPaginatedResponse(c, "suppliers", items, q, total)
}

// Get GET /api/suppliers/:id
func (h *SupplierHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "supplier")
	if err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.GetSupplier(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/suppliers
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var req domain.SupplierInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.CreateSupplier(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update PUT /api/suppliers/:id
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "supplier")
	if err != nil {
		return handleError(c, err)
	}
	var req domain.SupplierInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.UpdateSupplier(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Delete DELETE /api/suppliers/:id
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "supplier")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.svc.DeleteSupplier(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
