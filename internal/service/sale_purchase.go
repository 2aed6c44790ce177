package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// SalePurchaseServiceImpl 实现 domain.SalePurchaseService 接口
type SalePurchaseServiceImpl struct {
	db *gorm.DB
}

func NewSalePurchaseService(db *gorm.DB) *SalePurchaseServiceImpl {
	return &SalePurchaseServiceImpl{db: db}
}

func (s *SalePurchaseServiceImpl) ListSalePurchases(ctx context.Context, q domain.ListQuery) ([]model.SalePurchase, int64, error) {
	var links []model.SalePurchase
	total, err := listPage(s.db.WithContext(ctx), &model.SalePurchase{}, q, "uom", &links, "Purchase", "Sale", "User")
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to fetch salePurchases", err)
	}
	return links, total, nil
}

func (s *SalePurchaseServiceImpl) GetSalePurchase(ctx context.Context, id uint) (*model.SalePurchase, error) {
	var sp model.SalePurchase
	err := s.db.WithContext(ctx).
		Preload("Purchase").
		Preload("Sale").
		Preload("User").
		First(&sp, id).Error
	if err != nil {
		return nil, dbError(err, "SalePurchase")
	}
	return &sp, nil
}

func (s *SalePurchaseServiceImpl) CreateSalePurchase(ctx context.Context, userID uint, in domain.SalePurchaseInput) (*model.SalePurchase, error) {
	sp := model.SalePurchase{UserID: userID}
	if err := s.apply(ctx, &sp, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&sp).Error; err != nil {
		return nil, dbError(err, "SalePurchase")
	}
	return s.GetSalePurchase(ctx, sp.ID)
}

func (s *SalePurchaseServiceImpl) UpdateSalePurchase(ctx context.Context, id uint, in domain.SalePurchaseInput) (*model.SalePurchase, error) {
	var sp model.SalePurchase
	if err := s.db.WithContext(ctx).First(&sp, id).Error; err != nil {
		return nil, dbError(err, "SalePurchase")
	}
	if err := s.apply(ctx, &sp, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&sp).Error; err != nil {
		return nil, dbError(err, "SalePurchase")
	}
	return s.GetSalePurchase(ctx, sp.ID)
}

func (s *SalePurchaseServiceImpl) DeleteSalePurchase(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.SalePurchase{}, id)
	if res.Error != nil {
		return dbError(res.Error, "SalePurchase")
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("SalePurchase not found")
	}
	return nil
}

func (s *SalePurchaseServiceImpl) apply(ctx context.Context, sp *model.SalePurchase, in domain.SalePurchaseInput) error {
	if err := requireField(in.Uom, "Unit of measure is required"); err != nil {
		return err
	}
	qty, err := positive(in.QuantityUsed, "quantityUsed", quantityColumn)
	if err != nil {
		return err
	}
	purchaseID, err := parseRefID(in.PurchaseID, "purchaseId")
	if err != nil {
		return err
	}
	saleID, err := parseRefID(in.SaleID, "saleId")
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	if ok, err := exists(db, &model.Purchase{}, purchaseID); err != nil {
		return domain.NewInternalError("Failed to check purchase", err)
	} else if !ok {
		return domain.NewBadRequestError("Purchase does not exist")
	}
	if ok, err := exists(db, &model.Sale{}, saleID); err != nil {
		return domain.NewInternalError("Failed to check sale", err)
	} else if !ok {
		return domain.NewBadRequestError("Sale does not exist")
	}

	sp.PurchaseID = purchaseID
	sp.SaleID = saleID
	sp.QuantityUsed = qty
	sp.Uom = strings.TrimSpace(in.Uom)
	return nil
}
