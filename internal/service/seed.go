package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizledger.com/internal/auth"
	"bizledger.com/internal/config"
	"bizledger.com/internal/model"
)

var defaultRoles = []model.Role{
	{Name: "Administrator", Slug: model.RoleAdmin, Description: "Full access"},
	{Name: "Staff", Slug: model.RoleStaff, Description: "Back-office staff"},
	{Name: "User", Slug: model.RoleUser, Description: "Default role for new accounts"},
}

// isBuiltinRole 内置角色不能删除或改 slug
func isBuiltinRole(slug string) bool {
	for _, r := range defaultRoles {
		if r.Slug == slug {
			return true
		}
	}
	return false
}

// EnsureDefaultRoles creates the built-in roles that are missing and
// restores any that were soft-deleted.
func EnsureDefaultRoles(ctx context.Context, db *gorm.DB) error {
	slugs := make([]string, 0, len(defaultRoles))
	for _, r := range defaultRoles {
		slugs = append(slugs, r.Slug)
	}
	err := db.WithContext(ctx).Unscoped().Model(&model.Role{}).
		Where("slug IN ? AND deleted_at IS NOT NULL", slugs).
		Update("deleted_at", nil).Error
	if err != nil {
		return err
	}

	for _, r := range defaultRoles {
		r := r
		r.Permissions = []byte("{}")
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
			Create(&r).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// EnsureAdminUser checks if any user exists, if not creates a verified admin from config
func EnsureAdminUser(ctx context.Context, db *gorm.DB, cfg config.AppConfig, log *zap.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var role model.Role
	if err := db.WithContext(ctx).Where("slug = ?", model.RoleAdmin).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("admin role missing, run EnsureDefaultRoles first")
		}
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	admin := model.User{
		Username:        cfg.AdminUsername,
		Email:           strings.ToLower(cfg.AdminEmail),
		Password:        hash,
		RoleID:          &role.ID,
		EmailVerified:   true,
		EmailVerifiedAt: &now,
	}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(&admin).Error; err != nil {
		return err
	}

	log.Info("no users found, created default admin", zap.String("email", admin.Email))
	return nil
}
