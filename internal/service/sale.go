package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// SaleServiceImpl 实现 domain.SaleService 接口
type SaleServiceImpl struct {
	db *gorm.DB
}

func NewSaleService(db *gorm.DB) *SaleServiceImpl {
	return &SaleServiceImpl{db: db}
}

func (s *SaleServiceImpl) ListSales(ctx context.Context, q domain.ListQuery) ([]model.Sale, int64, error) {
	var sales []model.Sale
	total, err := listPage(s.db.WithContext(ctx), &model.Sale{}, q, "title", &sales, "Customer", "User")
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to fetch sales", err)
	}
	return sales, total, nil
}

func (s *SaleServiceImpl) GetSale(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := s.db.WithContext(ctx).Preload("Customer").Preload("User").First(&sale, id).Error; err != nil {
		return nil, dbError(err, "Sale")
	}
	return &sale, nil
}

func (s *SaleServiceImpl) CreateSale(ctx context.Context, userID uint, in domain.SaleInput) (*model.Sale, error) {
	sale := model.Sale{UserID: userID}
	if err := s.apply(ctx, &sale, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&sale).Error; err != nil {
		return nil, dbError(err, "Sale")
	}
	return s.GetSale(ctx, sale.ID)
}

func (s *SaleServiceImpl) UpdateSale(ctx context.Context, id uint, in domain.SaleInput) (*model.Sale, error) {
	var sale model.Sale
	if err := s.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		return nil, dbError(err, "Sale")
	}
	if err := s.apply(ctx, &sale, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&sale).Error; err != nil {
		return nil, dbError(err, "Sale")
	}
	return s.GetSale(ctx, sale.ID)
}

func (s *SaleServiceImpl) DeleteSale(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if ok, err := exists(db, &model.Sale{}, id); err != nil {
		return domain.NewInternalError("Failed to delete sale", err)
	} else if !ok {
		return domain.NewNotFoundError("Sale not found")
	}

	if inUse, err := referenced(db, &model.SalePurchase{}, "sale_id", id); err != nil {
		return domain.NewInternalError("Failed to delete sale", err)
	} else if inUse {
		return domain.NewInUseError("Sale is linked to purchases and cannot be deleted")
	}

	if err := db.Delete(&model.Sale{}, id).Error; err != nil {
		return dbError(err, "Sale")
	}
	return nil
}

func (s *SaleServiceImpl) apply(ctx context.Context, sale *model.Sale, in domain.SaleInput) error {
	if err := requireField(in.Title, "Title is required"); err != nil {
		return err
	}
	amount, err := nonNegative(in.Amount, "amount", amountColumn)
	if err != nil {
		return err
	}
	// 销售数量按件计，上限同数量列，IntPart 不会溢出
	qty, err := positive(in.Quantity, "quantity", quantityColumn)
	if err != nil {
		return err
	}
	if !qty.IsInteger() {
		return domain.NewBadRequestError("Invalid quantity")
	}
	date, err := parseDate(in.DateSold, "dateSold")
	if err != nil {
		return err
	}
	customerID, err := parseRefID(in.CustomerID, "customerId")
	if err != nil {
		return err
	}
	if ok, err := exists(s.db.WithContext(ctx), &model.Customer{}, customerID); err != nil {
		return domain.NewInternalError("Failed to check customer", err)
	} else if !ok {
		return domain.NewBadRequestError("Customer does not exist")
	}

	sale.Title = strings.TrimSpace(in.Title)
	sale.Amount = amount
	sale.Quantity = qty.IntPart()
	sale.DateSold = date
	sale.CustomerID = customerID
	return nil
}
