package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Purchase struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"not null;index" json:"title"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Quantity      decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantity"`
	DatePurchased time.Time       `gorm:"not null" json:"datePurchased"`
	SupplierID    uint            `gorm:"index;not null" json:"supplierId"`
	Supplier      *SupplierRef    `json:"supplier,omitempty"`
	UserID        uint            `gorm:"index;not null" json:"userId"`
	User          *UserRef        `json:"user,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// PurchaseRef is the purchase summary embedded in sale/purchase links.
type PurchaseRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func (PurchaseRef) TableName() string { return "purchases" }

type Sale struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Title      string          `gorm:"not null;index" json:"title"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Quantity   int64           `gorm:"not null" json:"quantity"`
	DateSold   time.Time       `gorm:"not null" json:"dateSold"`
	CustomerID uint            `gorm:"index;not null" json:"customerId"`
	Customer   *CustomerRef    `json:"customer,omitempty"`
	UserID     uint            `gorm:"index;not null" json:"userId"`
	User       *UserRef        `json:"user,omitempty"`
	CreatedAt  time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// SaleRef is the sale summary embedded in sale/purchase links.
type SaleRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func (SaleRef) TableName() string { return "sales" }

type Expense struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"not null;index" json:"title"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Qty         decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"qty"`
	Uom         string          `gorm:"not null" json:"uom"`
	ExpenseDate time.Time       `gorm:"not null" json:"expenseDate"`
	UserID      uint            `gorm:"index;not null" json:"userId"`
	User        *UserRef        `json:"user,omitempty"`
	CreatedAt   time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SalePurchase records how much of a purchase was consumed by a sale.
type SalePurchase struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	PurchaseID   uint            `gorm:"index;not null" json:"purchaseId"`
	Purchase     *PurchaseRef    `json:"purchase,omitempty"`
	SaleID       uint            `gorm:"index;not null" json:"saleId"`
	Sale         *SaleRef        `json:"sale,omitempty"`
	QuantityUsed decimal.Decimal `gorm:"type:numeric(14,3);not null" json:"quantityUsed"`
	Uom          string          `gorm:"not null" json:"uom"`
	UserID       uint            `gorm:"index;not null" json:"userId"`
	User         *UserRef        `json:"user,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Customer{},
		&Supplier{},
		&Purchase{},
		&Sale{},
		&Expense{},
		&SalePurchase{},
	}
}
