package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// UserHandler 用户列表与角色分配
type UserHandler struct {
	svc domain.UserService
}

func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List GET /api/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.svc.ListUsers(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(users)
}

// UpdateRole POST /api/update-role
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	var req struct {
		UserID json.Number `json:"userId"`
		RoleID json.Number `json:"roleId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, domain.NewBadRequestError("Invalid request body"))
	}

	userID, uerr := req.UserID.Int64()
	roleID, rerr := req.RoleID.Int64()
	if uerr != nil || rerr != nil || userID <= 0 || roleID <= 0 {
		return handleError(c, domain.NewBadRequestError("Missing userId or roleId"))
	}

	if err := h.svc.AssignRole(c.UserContext(), uint(userID), uint(roleID)); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Role updated successfully!"})
}
