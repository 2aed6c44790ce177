package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// ExpenseHandler 处理费用相关的 HTTP 请求
type ExpenseHandler struct {
	svc domain.ExpenseService
}

func NewExpenseHandler(svc domain.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// List 费用列表
// GET /api/expenses?page=&limit=&search=
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)
	items, total, err := h.svc.ListExpenses(c.UserContext(), q)
	if err != nil {
		return handleError(c, err)
	}
	return SendPaginatedResponse(c, "expenses", items, q, total)
}

// Get GET /api/expenses/:id
func (h *ExpenseHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "expense")
	if err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.GetExpense(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Create POST /api/expenses
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var req domain.ExpenseInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.CreateExpense(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update PUT /api/expenses/:id
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "expense")
	if err != nil {
		return handleError(c, err)
	}
	var req domain.ExpenseInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	item, err := h.svc.UpdateExpense(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Delete DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "expense")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.svc.DeleteExpense(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Expense deleted"})
}
