package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// CustomerServiceImpl 实现 domain.CustomerService 接口
type CustomerServiceImpl struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerServiceImpl {
	return &CustomerServiceImpl{db: db}
}

func (s *CustomerServiceImpl) ListCustomers(ctx context.Context, q domain.ListQuery) ([]model.Customer, int64, error) {
	var customers []model.Customer
	total, err := listPage(s.db.WithContext(ctx), &model.Customer{}, q, "c_name", &customers, "User")
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to fetch customers", err)
	}
	return customers, total, nil
}

func (s *CustomerServiceImpl) GetCustomer(ctx context.Context, id uint) (*model.Customer, error) {
	var c model.Customer
	if err := s.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, dbError(err, "Customer")
	}
	return &c, nil
}

func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, userID uint, in domain.CustomerInput) (*model.Customer, error) {
	c := model.Customer{UserID: userID}
	if err := applyCustomer(&c, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&c).Error; err != nil {
		return nil, dbError(err, "Customer")
	}
	return s.GetCustomer(ctx, c.ID)
}

func (s *CustomerServiceImpl) UpdateCustomer(ctx context.Context, id uint, in domain.CustomerInput) (*model.Customer, error) {
	var c model.Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, dbError(err, "Customer")
	}
	if err := applyCustomer(&c, in); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(&c).Error; err != nil {
		return nil, dbError(err, "Customer")
	}
	return s.GetCustomer(ctx, c.ID)
}

func (s *CustomerServiceImpl) DeleteCustomer(ctx context.Context, id uint) error {
	db := s.db.WithContext(ctx)
	if ok, err := exists(db, &model.Customer{}, id); err != nil {
		return domain.NewInternalError("Failed to delete customer", err)
	} else if !ok {
		return domain.NewNotFoundError("Customer not found")
	}

	if inUse, err := referenced(db, &model.Sale{}, "customer_id", id); err != nil {
		return domain.NewInternalError("Failed to delete customer", err)
	} else if inUse {
		return domain.NewInUseError("Customer has sales and cannot be deleted")
	}

	if err := db.Delete(&model.Customer{}, id).Error; err != nil {
		return dbError(err, "Customer")
	}
	return nil
}

func applyCustomer(c *model.Customer, in domain.CustomerInput) error {
	if err := requireField(in.CName, "Customer name is required"); err != nil {
		return err
	}
	c.CName = strings.TrimSpace(in.CName)
	c.Address = in.Address
	c.Contact = in.Contact
	c.Email = in.Email
	c.Type = in.Type
	if c.Type == "" {
		c.Type = model.CustomerIndividual
	}
	if c.Type != model.CustomerIndividual && c.Type != model.CustomerCompany {
		return domain.NewBadRequestError("Invalid customer type")
	}
	return nil
}
