package service

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// SummaryServiceImpl 管理后台统计
type SummaryServiceImpl struct {
	db *gorm.DB
}

func NewSummaryService(db *gorm.DB) *SummaryServiceImpl {
	return &SummaryServiceImpl{db: db}
}

func (s *SummaryServiceImpl) Summary(ctx context.Context) (*domain.Summary, error) {
	db := s.db.WithContext(ctx)
	out := &domain.Summary{
		Counts: make(map[string]int64),
		Totals: make(map[string]string),
	}

	counted := []struct {
		key   string
		model interface{}
	}{
		{"users", &model.User{}},
		{"roles", &model.Role{}},
		{"customers", &model.Customer{}},
		{"suppliers", &model.Supplier{}},
		{"purchases", &model.Purchase{}},
		{"sales", &model.Sale{}},
		{"expenses", &model.Expense{}},
		{"salePurchases", &model.SalePurchase{}},
	}
	for _, c := range counted {
		var n int64
		if err := db.Model(c.model).Count(&n).Error; err != nil {
			return nil, domain.NewInternalError("Failed to build summary", err)
		}
		out.Counts[c.key] = n
	}

	summed := []struct {
		key   string
		model interface{}
	}{
		{"sales", &model.Sale{}},
		{"purchases", &model.Purchase{}},
		{"expenses", &model.Expense{}},
	}
	for _, t := range summed {
		var total decimal.NullDecimal
		if err := db.Model(t.model).Select("SUM(amount)").Row().Scan(&total); err != nil {
			return nil, domain.NewInternalError("Failed to build summary", err)
		}
		out.Totals[t.key] = total.Decimal.StringFixed(2)
	}

	return out, nil
}
