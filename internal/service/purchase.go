package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// PurchaseServiceImpl 实现 domain.PurchaseService 接口
type PurchaseServiceImpl struct {
	db *gorm.DB
}

func NewPurchaseService(db *gorm.DB) *PurchaseServiceImpl {
	return &PurchaseServiceImpl{db: db}
}

func (s *PurchaseServiceImpl) ListPurchases(ctx context.Context, q domain.ListQuery) ([]model.Purchase, int64, error) {
	var purchases []model.Purchase
	total, err := listPage(s.db.WithContext(ctx), &model.Purchase{}, q, "title", &purchases, "Supplier", "User")
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to fetch purchases", err)
	}
	return purchases, total, nil
}

func (s *PurchaseServiceImpl) GetPurchase(ctx context.Context, id uint) (*model.Purchase, error) {
	var p model.Purchase
	if err := s.db.WithContext(ctx).Preload("Supplier").Preload("User").First(&p, id).Error; err != nil {
		return nil, dbError(err, "Purchase")
	}
	return &p, nil
}

func (s *PurchaseServiceImpl) CreatePurchase(ctx context.Context, userID uint, in domain.PurchaseInput) (*model.Purchase, error) {
	p := model.Purchase{UserID: userID}
	if err := s.apply(ctx, &p, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return nil, dbError(err, "Purchase")
	}
	return s.GetPurchase(ctx, p.ID)
}

func (s *PurchaseServiceImpl) UpdatePurchase(ctx context.Context, id uint, in domain.PurchaseInput) (*model.Purchase, error) {
	var p model.Purchase
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, dbError(err, "Purchase")
	}
	if err := s.apply(ctx, &p, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&p).Error; err != nil {
		return nil, dbError(err, "Purchase")
	}
	return s.GetPurchase(ctx, p.ID)
}

func (s *PurchaseServiceImpl) DeletePurchase(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if ok, err := exists(db, &model.Purchase{}, id); err != nil {
		return domain.NewInternalError("Failed to delete purchase", err)
	} else if !ok {
		return domain.NewNotFoundError("Purchase not found")
	}

	if inUse, err := referenced(db, &model.SalePurchase{}, "purchase_id", id); err != nil {
		return domain.NewInternalError("Failed to delete purchase", err)
	} else if inUse {
		return domain.NewInUseError("Purchase is linked to sales and cannot be deleted")
	}

	if err := db.Delete(&model.Purchase{}, id).Error; err != nil {
		return dbError(err, "Purchase")
	}
	return nil
}

func (s *PurchaseServiceImpl) apply(ctx context.Context, p *model.Purchase, in domain.PurchaseInput) error {
	if err := requireField(in.Title, "Title is required"); err != nil {
		return err
	}
	amount, err := nonNegative(in.Amount, "amount", amountColumn)
	if err != nil {
		return err
	}
	qty, err := positive(in.Quantity, "quantity", quantityColumn)
	if err != nil {
		return err
	}
	date, err := parseDate(in.DatePurchased, "datePurchased")
	if err != nil {
		return err
	}
	supplierID, err := parseRefID(in.SupplierID, "supplierId")
	if err != nil {
		return err
	}
	if ok, err := exists(s.db.WithContext(ctx), &model.Supplier{}, supplierID); err != nil {
		return domain.NewInternalError("Failed to check supplier", err)
	} else if !ok {
		return domain.NewBadRequestError("Supplier does not exist")
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Amount = amount
	p.Quantity = qty
	p.DatePurchased = date
	p.SupplierID = supplierID
	return nil
}
