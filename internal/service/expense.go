package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// ExpenseServiceImpl 实现 domain.ExpenseService 接口
type ExpenseServiceImpl struct {
	db *gorm.DB
}

func NewExpenseService(db *gorm.DB) *ExpenseServiceImpl {
	return &ExpenseServiceImpl{db: db}
}

func (s *ExpenseServiceImpl) ListExpenses(ctx context.Context, q domain.ListQuery) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	total, err := listPage(s.db.WithContext(ctx), &model.Expense{}, q, "title", &expenses, "User")
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to fetch expenses", err)
	}
	return expenses, total, nil
}

func (s *ExpenseServiceImpl) GetExpense(ctx context.Context, id uint) (*model.Expense, error) {
	var e model.Expense
	if err := s.db.WithContext(ctx).Preload("User").First(&e, id).Error; err != nil {
		return nil, dbError(err, "Expense")
	}
	return &e, nil
}

func (s *ExpenseServiceImpl) CreateExpense(ctx context.Context, userID uint, in domain.ExpenseInput) (*model.Expense, error) {
	e := model.Expense{UserID: userID}
	if err := applyExpense(&e, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&e).Error; err != nil {
		return nil, dbError(err, "Expense")
	}
	return s.GetExpense(ctx, e.ID)
}

func (s *ExpenseServiceImpl) UpdateExpense(ctx context.Context, id uint, in domain.ExpenseInput) (*model.Expense, error) {
	var e model.Expense
	if err := s.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, dbError(err, "Expense")
	}
	if err := applyExpense(&e, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&e).Error; err != nil {
		return nil, dbError(err, "Expense")
	}
	return s.GetExpense(ctx, e.ID)
}

func (s *ExpenseServiceImpl) DeleteExpense(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Expense{}, id)
	if res.Error != nil {
		return dbError(res.Error, "Expense")
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("Expense not found")
	}
	return nil
}

func applyExpense(e *model.Expense, in domain.ExpenseInput) error {
	if err := requireField(in.Title, "Title is required"); err != nil {
		return err
	}
	if err := requireField(in.Uom, "Unit of measure is required"); err != nil {
		return err
	}
	amount, err := nonNegative(in.Amount, "amount", amountColumn)
	if err != nil {
		return err
	}
	qty, err := positive(in.Qty, "qty", quantityColumn)
	if err != nil {
		return err
	}
	date, err := parseDate(in.ExpenseDate, "expenseDate")
	if err != nil {
		return err
	}

	e.Title = strings.TrimSpace(in.Title)
	e.Amount = amount
	e.Qty = qty
	e.Uom = strings.TrimSpace(in.Uom)
	e.ExpenseDate = date
	return nil
}
