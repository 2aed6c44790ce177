package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// SupplierServiceImpl 实现 domain.SupplierService 接口
type SupplierServiceImpl struct {
	db *gorm.DB
}

func NewSupplierService(db *gorm.DB) *SupplierServiceImpl {
	return &SupplierServiceImpl{db: db}
}

func (s *SupplierServiceImpl) ListSuppliers(ctx context.Context, q domain.ListQuery) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	total, err := listPage(s.db.WithContext(ctx), &model.Supplier{}, q, "name", &suppliers, "Creator")
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to fetch suppliers", err)
	}
	return suppliers, total, nil
}

func (s *SupplierServiceImpl) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	var sup model.Supplier
	if err := s.db.WithContext(ctx).Preload("Creator").First(&sup, id).Error; err != nil {
		return nil, dbError(err, "Supplier")
	}
	return &sup, nil
}

func (s *SupplierServiceImpl) CreateSupplier(ctx context.Context, userID uint, in domain.SupplierInput) (*model.Supplier, error) {
	sup := model.Supplier{CreatedBy: userID}
	if err := applySupplier(&sup, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&sup).Error; err != nil {
		return nil, dbError(err, "Supplier")
	}
	return s.GetSupplier(ctx, sup.ID)
}

func (s *SupplierServiceImpl) UpdateSupplier(ctx context.Context, id uint, in domain.SupplierInput) (*model.Supplier, error) {
	var sup model.Supplier
	if err := s.db.WithContext(ctx).First(&sup, id).Error; err != nil {
		return nil, dbError(err, "Supplier")
	}
	if err := applySupplier(&sup, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&sup).Error; err != nil {
		return nil, dbError(err, "Supplier")
	}
	return s.GetSupplier(ctx, sup.ID)
}

func (s *SupplierServiceImpl) DeleteSupplier(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if ok, err := exists(db, &model.Supplier{}, id); err != nil {
		return domain.NewInternalError("Failed to delete supplier", err)
	} else if !ok {
		return domain.NewNotFoundError("Supplier not found")
	}

	if inUse, err := referenced(db, &model.Purchase{}, "supplier_id", id); err != nil {
		return domain.NewInternalError("Failed to delete supplier", err)
	} else if inUse {
		return domain.NewInUseError("Supplier has purchases and cannot be deleted")
	}

	if err := db.Delete(&model.Supplier{}, id).Error; err != nil {
		return dbError(err, "Supplier")
	}
	return nil
}

func applySupplier(sup *model.Supplier, in domain.SupplierInput) error {
	if err := requireField(in.Name, "Supplier name is required"); err != nil {
		return err
	}
	sup.Name = strings.TrimSpace(in.Name)
	sup.Contact = in.Contact
	sup.Address = in.Address
	sup.Email = in.Email
	return nil
}
