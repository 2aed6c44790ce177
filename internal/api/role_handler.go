package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// RoleHandler 处理角色相关的 HTTP 请求
type RoleHandler struct {
	svc domain.RoleService
}

func NewRoleHandler(svc domain.RoleService) *RoleHandler {
	return &RoleHandler{svc: svc}
}

// List 角色列表
// GET /api/roles?page=&limit=&search=
func (h *RoleHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)
	items, total, err := h.svc.ListRoles(c.UserContext(), q)
	if err != nil {
		return handleError(c, err)
	}
	return SendPaginatedResponse(c, "roles", items, q, total)
}

// Get GET /api/roles/:id
func (h *RoleHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "role")
	if err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.GetRole(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/roles
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req domain.RoleInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.CreateRole(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update PUT /api/roles/:id
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "role")
	if err != nil {
		return handleError(c, err)
	}
	var req domain.RoleInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.UpdateRole(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Delete DELETE /api/roles/:id
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "role")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.svc.DeleteRole(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role soft deleted"})
}
