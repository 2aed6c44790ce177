package api

import (
	"github.com/gofiber/fiber/v2"

	"bizledger.com/internal/domain"
)

// CustomerHandler 处理客户相关的 HTTP 请求
type CustomerHandler struct {
	svc domain.CustomerService
}

func NewCustomerHandler(svc domain.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// List 客户列表
// GET /api/customers?page=&limit=&search=
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	q := parseListQuery(c)
	customers, total, err := h.svc.ListCustomers(c.UserContext(), q)
	if err != nil {
		return handleError(c, err)
	}
	return SendPaginatedResponse(c, "customers", customers, q, total)
}

// Get GET /api/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "customer")
	if err != nil {
		return handleError(c, err)
	}
	customer, err := h.svc.GetCustomer(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(customer)
}

// Create POST /api/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var req domain.CustomerInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	customer, err := h.svc.CreateCustomer(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// Update PUT /api/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "customer")
	if err != nil {
		return handleError(c, err)
	}
	var req domain.CustomerInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}
	customer, err := h.svc.UpdateCustomer(c.UserContext(), id, req)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(customer)
}

// Delete DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "customer")
	if err != nil {
		return handleError(c, err)
	}
	if err := h.svc.DeleteCustomer(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
