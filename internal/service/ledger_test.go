package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

func idOf(id uint) json.Number { return json.Number(fmt.Sprint(id)) }

func TestSupplierService_CRUD(t *testing.T) {
	db, owner := newSeededDB(t)
	svc := NewSupplierService(db)
	ctx := context.Background()

	s, err := svc.CreateSupplier(ctx, owner.ID, domain.SupplierInput{Name: "Mill Co", Contact: "555"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, s.CreatedBy)
	require.NotNil(t, s.Creator)
	assert.Equal(t, "owner", s.Creator.Username)

	s, err = svc.UpdateSupplier(ctx, s.ID, domain.SupplierInput{Name: "Mill Company"})
	require.NoError(t, err)
	assert.Equal(t, "Mill Company", s.Name)

	list, total, err := svc.ListSuppliers(ctx, domain.ListQuery{Page: 1, Limit: 10, Search: "mill"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteSupplier(ctx, s.ID))
	assert.ErrorIs(t, svc.DeleteSupplier(ctx, s.ID), domain.ErrNotFound)
}

func TestPurchaseService(t *testing.T) {
	db, owner := newSeededDB(t)
	ctx := context.Background()
	sup, err := NewSupplierService(db).CreateSupplier(ctx, owner.ID, domain.SupplierInput{Name: "Mill"})
	require.NoError(t, err)
	svc := NewPurchaseService(db)

	p, err := svc.CreatePurchase(ctx, owner.ID, domain.PurchaseInput{
		Title: "Flour", Amount: dec("120.50"), Quantity: dec("25.5"), DatePurchased: "2024-03-02", SupplierID: idOf(sup.ID),
	})
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(*dec("120.5")))
	require.NotNil(t, p.Supplier)
	assert.Equal(t, "Mill", p.Supplier.Name)
	require.NotNil(t, p.User)
	assert.Equal(t, 2024, p.DatePurchased.Year())

	_, err = svc.CreatePurchase(ctx, owner.ID, domain.PurchaseInput{
		Title: "Flour", Amount: dec("1"), Quantity: dec("1"), DatePurchased: "2024-03-02", SupplierID: "999",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreatePurchase(ctx, owner.ID, domain.PurchaseInput{
		Title: "Flour", Amount: dec("-1"), Quantity: dec("1"), DatePurchased: "2024-03-02", SupplierID: idOf(sup.ID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreatePurchase(ctx, owner.ID, domain.PurchaseInput{
		Title: "Flour", Amount: dec("1"), Quantity: dec("0"), DatePurchased: "2024-03-02", SupplierID: idOf(sup.ID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreatePurchase(ctx, owner.ID, domain.PurchaseInput{
		Title: "Flour", Amount: dec("1"), Quantity: dec("1"), DatePurchased: "yesterday", SupplierID: idOf(sup.ID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err = svc.UpdatePurchase(ctx, p.ID, domain.PurchaseInput{
		Title: "Rye flour", Amount: dec("99"), Quantity: dec("10"), DatePurchased: "2024-03-05T10:00:00Z", SupplierID: idOf(sup.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rye flour", p.Title)

	assert.ErrorIs(t, NewSupplierService(db).DeleteSupplier(ctx, sup.ID), domain.ErrInUse)
	require.NoError(t, svc.DeletePurchase(ctx, p.ID))
}

func TestSaleService_QuantityMustBeWhole(t *testing.T) {
	db, owner := newSeededDB(t)
	ctx := context.Background()
	c, err := NewCustomerService(db).CreateCustomer(ctx, owner.ID, domain.CustomerInput{CName: "Buyer"})
	require.NoError(t, err)
	svc := NewSaleService(db)

	_, err = svc.CreateSale(ctx, owner.ID, domain.SaleInput{
		Title: "Bread", Amount: dec("5"), Quantity: dec("1.5"), DateSold: "2024-05-01", CustomerID: idOf(c.ID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sale, err := svc.CreateSale(ctx, owner.ID, domain.SaleInput{
		Title: "Bread", Amount: dec("5"), Quantity: dec("3"), DateSold: "2024-05-01", CustomerID: idOf(c.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), sale.Quantity)
	require.NotNil(t, sale.Customer)
	assert.Equal(t, "Buyer", sale.Customer.CName)

	_, err = svc.CreateSale(ctx, owner.ID, domain.SaleInput{
		Title: "Bread", Amount: dec("5"), Quantity: dec("3"), DateSold: "2024-05-01", CustomerID: "abc",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// 超出 int64 的整数不能被截断后写入
	for _, q := range []string{"18446744073709551616", "100000000000000000000", "99999999999999"} {
		_, err = svc.CreateSale(ctx, owner.ID, domain.SaleInput{
			Title: "Bread", Amount: dec("5"), Quantity: dec(q), DateSold: "2024-05-01", CustomerID: idOf(c.ID),
		})
		var appErr *domain.AppError
		require.ErrorAs(t, err, &appErr, q)
		assert.Equal(t, "Invalid quantity", appErr.Message)
	}

	var n int64
	require.NoError(t, db.Model(&model.Sale{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestNumericColumnBounds(t *testing.T) {
	db, owner := newSeededDB(t)
	ctx := context.Background()
	svc := NewExpenseService(db)

	create := func(amount, qty string) error {
		_, err := svc.CreateExpense(ctx, owner.ID, domain.ExpenseInput{
			Title: "Rent", Amount: dec(amount), Qty: dec(qty), Uom: "month", ExpenseDate: "2024-02-01",
		})
		return err
	}

	tests := []struct {
		name   string
		amount string
		qty    string
		ok     bool
	}{
		{"largest amount", "999999999999.99", "1", true},
		{"amount too large", "1000000000000", "1", false},
		{"amount overflows float", "1e400", "1", false},
		{"amount too precise", "10.005", "1", false},
		{"largest quantity", "10", "99999999999.999", true},
		{"quantity too large", "10", "100000000000", false},
		{"quantity too precise", "10", "0.0005", false},
		{"trailing zeros allowed", "10.500", "2.0000", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := create(tt.amount, tt.qty)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			}
		})
	}
}

func TestExpenseService(t *testing.T) {
	db, owner := newSeededDB(t)
	ctx := context.Background()
	svc := NewExpenseService(db)

	e, err := svc.CreateExpense(ctx, owner.ID, domain.ExpenseInput{
		Title: "Electricity", Amount: dec("80.25"), Qty: dec("1"), Uom: "month", ExpenseDate: "2024-02-29",
	})
	require.NoError(t, err)
	assert.Equal(t, "month", e.Uom)

	_, err = svc.CreateExpense(ctx, owner.ID, domain.ExpenseInput{
		Title: "Electricity", Amount: dec("80"), Qty: dec("1"), Uom: " ", ExpenseDate: "2024-02-29",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, total, err := svc.ListExpenses(ctx, domain.ListQuery{Page: 1, Limit: 10, Search: "electric"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].User)

	require.NoError(t, svc.DeleteExpense(ctx, e.ID))
	assert.ErrorIs(t, svc.DeleteExpense(ctx, e.ID), domain.ErrNotFound)
}

func TestSalePurchaseService(t *testing.T) {
	db, owner := newSeededDB(t)
	ctx := context.Background()

	sup, err := NewSupplierService(db).CreateSupplier(ctx, owner.ID, domain.SupplierInput{Name: "Mill"})
	require.NoError(t, err)
	p, err := NewPurchaseService(db).CreatePurchase(ctx, owner.ID, domain.PurchaseInput{
		Title: "Flour", Amount: dec("100"), Quantity: dec("50"), DatePurchased: "2024-03-01", SupplierID: idOf(sup.ID),
	})
	require.NoError(t, err)
	c, err := NewCustomerService(db).CreateCustomer(ctx, owner.ID, domain.CustomerInput{CName: "Buyer"})
	require.NoError(t, err)
	sale, err := NewSaleService(db).CreateSale(ctx, owner.ID, domain.SaleInput{
		Title: "Bread", Amount: dec("30"), Quantity: dec("10"), DateSold: "2024-03-03", CustomerID: idOf(c.ID),
	})
	require.NoError(t, err)

	svc := NewSalePurchaseService(db)
	link, err := svc.CreateSalePurchase(ctx, owner.ID, domain.SalePurchaseInput{
		PurchaseID: idOf(p.ID), SaleID: idOf(sale.ID), QuantityUsed: dec("2.5"), Uom: "kg",
	})
	require.NoError(t, err)
	require.NotNil(t, link.Purchase)
	require.NotNil(t, link.Sale)
	assert.Equal(t, "Flour", link.Purchase.Title)
	assert.Equal(t, "Bread", link.Sale.Title)

	_, err = svc.CreateSalePurchase(ctx, owner.ID, domain.SalePurchaseInput{
		PurchaseID: idOf(p.ID), SaleID: "404", QuantityUsed: dec("1"), Uom: "kg",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, total, err := svc.ListSalePurchases(ctx, domain.ListQuery{Page: 1, Limit: 10, Search: "KG"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, NewPurchaseService(db).DeletePurchase(ctx, p.ID), domain.ErrInUse)
	assert.ErrorIs(t, NewSaleService(db).DeleteSale(ctx, sale.ID), domain.ErrInUse)

	require.NoError(t, svc.DeleteSalePurchase(ctx, link.ID))
	require.NoError(t, NewSaleService(db).DeleteSale(ctx, sale.ID))
}
