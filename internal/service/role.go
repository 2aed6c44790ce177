package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
)

// RoleServiceImpl 实现 domain.RoleService 接口
type RoleServiceImpl struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleServiceImpl {
	return &RoleServiceImpl{db: db}
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context, q domain.ListQuery) ([]model.Role, int64, error) {
	var roles []model.Role
	total, err := listPage(s.db.WithContext(ctx), &model.Role{}, q, "name", &roles)
	if err != nil {
		return nil, 0, domain.NewInternalError("Failed to fetch roles", err)
	}
	return roles, total, nil
}

func (s *RoleServiceImpl) GetRole(ctx context.Context, id uint) (*model.Role, error) {
	var r model.Role
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, dbError(err, "Role")
	}
	return &r, nil
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, in domain.RoleInput) (*model.Role, error) {
	var r model.Role
	if err := applyRole(&r, in); err != nil {
		return nil, err
	}
	if err := s.checkSlug(ctx, r.Slug, 0); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, dbError(err, "Role")
	}
	return &r, nil
}

func (s *RoleServiceImpl) UpdateRole(ctx context.Context, id uint, in domain.RoleInput) (*model.Role, error) {
	var r model.Role
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, dbError(err, "Role")
	}
	slug := r.Slug
	if err := applyRole(&r, in); err != nil {
		return nil, err
	}
	if isBuiltinRole(slug) && r.Slug != slug {
		return nil, domain.NewBadRequestError("Built-in role slug cannot be changed")
	}
	if err := s.checkSlug(ctx, r.Slug, r.ID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(&r).Error; err != nil {
		return nil, dbError(err, "Role")
	}
	return &r, nil
}

// DeleteRole 软删除，用户上的 roleId 保留，会话角色回落到 user
func (s *RoleServiceImpl) DeleteRole(ctx context.Context, id uint) error {
	var r model.Role
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return dbError(err, "Role")
	}
	if isBuiltinRole(r.Slug) {
		return domain.NewBadRequestError("Built-in roles cannot be deleted")
	}

	res := s.db.WithContext(ctx).Delete(&r)
	if res.Error != nil {
		return dbError(res.Error, "Role")
	}
	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("Role not found")
	}
	return nil
}

// checkSlug 唯一索引包含已软删除的角色
func (s *RoleServiceImpl) checkSlug(ctx context.Context, slug string, selfID uint) error {
	var n int64
	err := s.db.WithContext(ctx).Unscoped().Model(&model.Role{}).
		Where("slug = ? AND id <> ?", slug, selfID).
		Count(&n).Error
	if err != nil {
		return domain.NewInternalError("Failed to check role slug", err)
	}
	if n > 0 {
		return domain.NewConflictError("Role slug already in use")
	}
	return nil
}

func applyRole(r *model.Role, in domain.RoleInput) error {
	if err := requireField(in.Name, "Name is required"); err != nil {
		return err
	}
	if err := requireField(in.Slug, "Slug is required"); err != nil {
		return err
	}

	perms := bytes.TrimSpace(in.Permissions)
	if len(perms) == 0 || bytes.Equal(perms, []byte("null")) {
		perms = []byte("{}")
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(perms, &obj); err != nil {
		return domain.NewBadRequestError("Permissions must be a JSON object")
	}

	r.Name = strings.TrimSpace(in.Name)
	r.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	r.Description = in.Description
	r.Permissions = json.RawMessage(perms)
	return nil
}
