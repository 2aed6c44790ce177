package model

import "time"

// Customer types accepted by the API.
const (
	CustomerIndividual = "Individual"
	CustomerCompany    = "Company/Business"
)

type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CName     string    `gorm:"column:c_name;not null;index" json:"c_name"`
	Address   string    `json:"address"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Type      string    `gorm:"default:'Individual'" json:"type"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	User      *UserRef  `json:"user,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomerRef is the customer summary embedded in sales.
type CustomerRef struct {
	ID    uint   `json:"id"`
	CName string `gorm:"column:c_name" json:"c_name"`
}

func (CustomerRef) TableName() string { return "customers" }

type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;index" json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	CreatedBy uint      `gorm:"index;not null" json:"createdBy"`
	Creator   *UserRef  `gorm:"foreignKey:CreatedBy" json:"user,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SupplierRef is the supplier summary embedded in purchases.
type SupplierRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (SupplierRef) TableName() string { return "suppliers" }
