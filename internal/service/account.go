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
	"bizledger.com/internal/constants"
	"bizledger.com/internal/domain"
	"bizledger.com/internal/event"
	"bizledger.com/internal/model"
)

const (
	minPasswordLength = 6
	resetTokenTTL     = time.Hour
)

// AccountEvent 账户事件负载，通知服务据此生成邮件
type AccountEvent struct {
	UserID   uint
	Email    string
	Username string
	Token    string
}

// AccountServiceImpl 实现 domain.AccountService 接口
type AccountServiceImpl struct {
	db        *gorm.DB
	publisher domain.EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

func NewAccountService(db *gorm.DB, publisher domain.EventPublisher, log *zap.Logger) *AccountServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountServiceImpl{
		db:        db,
		publisher: publisher,
		log:       log.Named("account"),
		now:       time.Now,
	}
}

// SignUp 注册新用户，默认角色 user；admin 不能自助注册
func (s *AccountServiceImpl) SignUp(ctx context.Context, in domain.SignUpInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, domain.NewBadRequestError("All fields are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, domain.NewBadRequestError("Password must be at least 6 characters long")
	}

	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&model.User{}).Where("email = ? OR username = ?", in.Email, in.Username).Count(&n).Error; err != nil {
		return nil, domain.NewInternalError("Error creating account", err)
	}
	if n > 0 {
		return nil, domain.NewConflictError("Email or Username already in use")
	}

	slug := strings.ToLower(strings.TrimSpace(in.Role))
	if slug == "" {
		slug = model.RoleUser
	}
	if slug == model.RoleAdmin {
		return nil, domain.NewBadRequestError("Invalid role specified")
	}
	var role model.Role
	if err := db.Where("slug = ?", slug).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewBadRequestError("Invalid role specified")
		}
		return nil, domain.NewInternalError("Error creating account", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, domain.NewInternalError("Error creating account", err)
	}
	token, err := auth.RandomToken()
	if err != nil {
		return nil, domain.NewInternalError("Error creating account", err)
	}

	user := model.User{
		Username:        in.Username,
		Email:           in.Email,
		Password:        hash,
		RoleID:          &role.ID,
		EmailVerifToken: &token,
	}
	if err := db.Omit(clause.Associations).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.NewConflictError("Email or Username already in use")
		}
		return nil, domain.NewInternalError("Error creating account", err)
	}
	user.Role = &role

	s.publish(constants.EventUserRegistered, &user, token)
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", slug))
	return &user, nil
}

func (s *AccountServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.NewBadRequestError("Token is required")
	}

	now := s.now()
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("email_verif_token = ?", token).
		Updates(map[string]interface{}{
			"email_verified":    true,
			"email_verified_at": now,
			"email_verif_token": nil,
		})
	if res.Error != nil {
		return domain.NewInternalError("Internal server error", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewBadRequestError("Invalid or expired token")
	}
	return nil
}

// ResendVerification 轮换验证令牌并重新发送
func (s *AccountServiceImpl) ResendVerification(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return domain.NewBadRequestError("Email already verified")
	}

	token, err := auth.RandomToken()
	if err != nil {
		return domain.NewInternalError("Error resending verification email", err)
	}
	if err := s.db.WithContext(ctx).Model(user).Update("email_verif_token", token).Error; err != nil {
		return domain.NewInternalError("Error resending verification email", err)
	}

	s.publish(constants.EventVerificationResent, user, token)
	return nil
}

func (s *AccountServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := auth.RandomToken()
	if err != nil {
		return domain.NewInternalError("Error resetting password", err)
	}
	expires := s.now().Add(resetTokenTTL)
	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"reset_password_token":   token,
		"reset_password_expires": expires,
	}).Error
	if err != nil {
		return domain.NewInternalError("Error resetting password", err)
	}

	s.publish(constants.EventPasswordResetRequested, user, token)
	return nil
}

func (s *AccountServiceImpl) ResetPassword(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" || password == "" {
		return domain.NewBadRequestError("Token and password are required")
	}
	if len(password) < minPasswordLength {
		return domain.NewBadRequestError("Password must be at least 6 characters long")
	}

	db := s.db.WithContext(ctx)
	var user model.User
	err := db.Where("reset_password_token = ? AND reset_password_expires > ?", token, s.now()).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewBadRequestError("Invalid or expired token")
	}
	if err != nil {
		return domain.NewInternalError("Error resetting password", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.NewInternalError("Error resetting password", err)
	}
	err = db.Model(&user).Updates(map[string]interface{}{
		"password":               hash,
		"reset_password_token":   nil,
		"reset_password_expires": nil,
	}).Error
	if err != nil {
		return domain.NewInternalError("Error resetting password", err)
	}

	s.log.Info("password reset", zap.Uint("user_id", user.ID))
	return nil
}

// Authenticate 密码错误和用户不存在返回同一个错误
func (s *AccountServiceImpl) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.NewBadRequestError("Missing email or password")
	}

	var user model.User
	err := s.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewUnauthorizedError("Invalid credentials")
	}
	if err != nil {
		return nil, domain.NewInternalError("Internal server error", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, domain.NewUnauthorizedError("Invalid credentials")
	}
	if !user.EmailVerified {
		return nil, domain.NewForbiddenError("Email not verified")
	}
	return &user, nil
}

// PurgeExpiredResetTokens 清除过期的密码重置令牌
func (s *AccountServiceImpl) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_password_expires IS NOT NULL AND reset_password_expires <= ?", s.now()).
		Updates(map[string]interface{}{
			"reset_password_token":   nil,
			"reset_password_expires": nil,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *AccountServiceImpl) findByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.NewBadRequestError("Email is required")
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("User not found")
	}
	if err != nil {
		return nil, domain.NewInternalError("Internal server error", err)
	}
	return &user, nil
}

func (s *AccountServiceImpl) publish(eventType string, u *model.User, token string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event.Event{
		Type:   eventType,
		Source: "account",
		Data: AccountEvent{
			UserID:   u.ID,
			Email:    u.Email,
			Username: u.Username,
			Token:    token,
		},
	})
}
