package service

import (
	"context"

	"gorm.io/gorm"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// UserServiceImpl 实现 domain.UserService 接口
type UserServiceImpl struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserServiceImpl {
	return &UserServiceImpl{db: db}
}

// ListUsers 只返回 id 和 username，用于下拉选择
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]model.UserRef, error) {
	var users []model.UserRef
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, domain.NewInternalError("Failed to fetch users", err)
	}
	return users, nil
}

func (s *UserServiceImpl) AssignRole(ctx context.Context, userID, roleID uint) error {
	db := s.db.WithContext(ctx)

	if ok, err := exists(db, &model.User{}, userID); err != nil {
		return domain.NewInternalError("Failed to update role", err)
	} else if !ok {
		return domain.NewNotFoundError("User not found")
	}
	if ok, err := exists(db, &model.Role{}, roleID); err != nil {
		return domain.NewInternalError("Failed to update role", err)
	} else if !ok {
		return domain.NewNotFoundError("Role not found")
	}

	if err := db.Model(&model.User{}).Where("id = ?", userID).Update("role_id", roleID).Error; err != nil {
		return domain.NewInternalError("Failed to update role", err)
	}
	return nil
}
