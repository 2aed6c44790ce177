package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

func TestCustomerService_CRUD(t *testing.T) {
	db, owner := newSeededDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, owner.ID, domain.CustomerInput{CName: "  Acme Ltd ", Email: "info@acme.io", Type: model.CustomerCompany})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", c.CName)
	require.NotNil(t, c.User)
	assert.Equal(t, "owner", c.User.Username)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CustomerCompany, got.Type)

	updated, err := svc.UpdateCustomer(ctx, c.ID, domain.CustomerInput{CName: "Acme Group"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Group", updated.CName)
	assert.Equal(t, model.CustomerIndividual, updated.Type)
	assert.Equal(t, owner.ID, updated.UserID)

	require.NoError(t, svc.DeleteCustomer(ctx, c.ID))
	_, err = svc.GetCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, c.ID), domain.ErrNotFound)
}

func TestCustomerService_Validation(t *testing.T) {
	db, owner := newSeededDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, owner.ID, domain.CustomerInput{CName: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.CreateCustomer(ctx, owner.ID, domain.CustomerInput{CName: "x", Type: "Government"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateCustomer(ctx, 999, domain.CustomerInput{CName: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerService_ListSearchAndPaging(t *testing.T) {
	db, owner := newSeededDB(t)
	svc := NewCustomerService(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("Customer %02d", i)
		if i%3 == 0 {
			name = fmt.Sprintf("Bakery %02d", i)
		}
		c := model.Customer{CName: name, Type: model.CustomerIndividual, UserID: owner.ID, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, db.Create(&c).Error)
	}

	items, total, err := svc.ListCustomers(ctx, domain.ListQuery{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, items, 5)
	assert.Equal(t, "Customer 11", items[0].CName)
	require.NotNil(t, items[0].User)

	items, _, err = svc.ListCustomers(ctx, domain.ListQuery{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, total, err = svc.ListCustomers(ctx, domain.ListQuery{Page: 1, Limit: 10, Search: "bAKery"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, items, 4)
	assert.Equal(t, "Bakery 09", items[0].CName)

	// 通配符按字面匹配
	require.NoError(t, db.Create(&model.Customer{CName: "50% Off Store", UserID: owner.ID}).Error)
	require.NoError(t, db.Create(&model.Customer{CName: `Back\Slash`, UserID: owner.ID}).Error)
	for term, want := range map[string]int64{"%": 1, "0%": 1, "_": 0, `\`: 1, `k\s`: 1, "%off": 0} {
		_, total, err = svc.ListCustomers(ctx, domain.ListQuery{Page: 1, Limit: 10, Search: term})
		require.NoError(t, err)
		assert.Equal(t, want, total, "search %q", term)
	}
}

func TestCustomerService_DeleteReferenced(t *testing.T) {
	db, owner := newSeededDB(t)
	ctx := context.Background()
	customers := NewCustomerService(db)
	sales := NewSaleService(db)

	c, err := customers.CreateCustomer(ctx, owner.ID, domain.CustomerInput{CName: "Buyer"})
	require.NoError(t, err)
	_, err = sales.CreateSale(ctx, owner.ID, domain.SaleInput{
		Title: "Bread", Amount: dec("10"), Quantity: dec("2"), DateSold: "2024-05-01", CustomerID: idOf(c.ID),
	})
	require.NoError(t, err)

	err = customers.DeleteCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
}
