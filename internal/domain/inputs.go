package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Request payloads. Numeric fields accept JSON numbers or numeric strings,
// matching what HTML forms post.

type CustomerInput struct {
	CName   string `json:"c_name" validate:"required,max=255"`
	Address string `json:"address" validate:"max=500"`
	Contact string `json:"contact" validate:"max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Type    string `json:"type" validate:"omitempty,oneof=Individual Company/Business"`
}

type SupplierInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Contact string `json:"contact" validate:"max=100"`
	Address string `json:"address" validate:"max=500"`
	Email   string `json:"email" validate:"omitempty,email"`
}

type PurchaseInput struct {
	Title         string           `json:"title" validate:"required,max=255"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	Quantity      *decimal.Decimal `json:"quantity" validate:"required"`
	DatePurchased string           `json:"datePurchased" validate:"required"`
	SupplierID    json.Number      `json:"supplierId" validate:"required"`
}

type SaleInput struct {
	Title      string           `json:"title" validate:"required,max=255"`
	Amount     *decimal.Decimal `json:"amount" validate:"required"`
	Quantity   *decimal.Decimal `json:"quantity" validate:"required"`
	DateSold   string           `json:"dateSold" validate:"required"`
	CustomerID json.Number      `json:"customerId" validate:"required"`
}

type ExpenseInput struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Qty         *decimal.Decimal `json:"qty" validate:"required"`
	Uom         string           `json:"uom" validate:"required,max=20"`
	ExpenseDate string           `json:"expenseDate" validate:"required"`
}

type SalePurchaseInput struct {
	PurchaseID   json.Number      `json:"purchaseId" validate:"required"`
	SaleID       json.Number      `json:"saleId" validate:"required"`
	QuantityUsed *decimal.Decimal `json:"quantityUsed" validate:"required"`
	Uom          string           `json:"uom" validate:"required,max=20"`
}

type RoleInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Slug        string          `json:"slug" validate:"required,max=50"`
	Description string          `json:"description"`
	Permissions json.RawMessage `json:"permissions"`
}

type SignUpInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}
