package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bizledger.com/internal/config"
	"bizledger.com/internal/constants"
	"bizledger.com/internal/domain"
	"bizledger.com/internal/model"
	"bizledger.com/internal/testutil"
)

func newAccountService(t *testing.T) (*AccountServiceImpl, *recordingPublisher) {
	t.Helper()
	db, _ := newSeededDB(t)
	pub := &recordingPublisher{}
	return NewAccountService(db, pub, zap.NewNop()), pub
}

func TestAccount_SignUpVerifySignIn(t *testing.T) {
	svc, pub := newAccountService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "Ann@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.RoleSlug())
	assert.False(t, u.EmailVerified)
	require.NotNil(t, u.EmailVerifToken)
	assert.Len(t, *u.EmailVerifToken, 64)

	e := pub.last()
	assert.Equal(t, constants.EventUserRegistered, e.Type)
	payload := e.Data.(AccountEvent)
	assert.Equal(t, *u.EmailVerifToken, payload.Token)

	_, err = svc.Authenticate(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "nope"), domain.ErrInvalidInput)
	require.NoError(t, svc.VerifyEmail(ctx, payload.Token))
	assert.ErrorIs(t, svc.VerifyEmail(ctx, payload.Token), domain.ErrInvalidInput)

	got, err := svc.Authenticate(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NotNil(t, got.Role)
	assert.Equal(t, model.RoleUser, got.Role.Slug)

	_, err = svc.Authenticate(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Authenticate(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAccount_SignUpRejects(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "ann@example.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "ann@example.com", Password: "secret1", Role: "wizard"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "ann@example.com", Password: "secret1", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "ann@example.com", Password: "secret1", Role: "staff"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, u.RoleSlug())

	_, err = svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	_, err = svc.SignUp(ctx, domain.SignUpInput{Username: "bob", Email: "ann@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestAccount_ResendVerification(t *testing.T) {
	svc, pub := newAccountService(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	first := *u.EmailVerifToken

	assert.ErrorIs(t, svc.ResendVerification(ctx, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.ResendVerification(ctx, "ghost@example.com"), domain.ErrNotFound)

	require.NoError(t, svc.ResendVerification(ctx, "ann@example.com"))
	e := pub.last()
	assert.Equal(t, constants.EventVerificationResent, e.Type)
	second := e.Data.(AccountEvent).Token
	assert.NotEqual(t, first, second)

	// 旧令牌失效
	assert.ErrorIs(t, svc.VerifyEmail(ctx, first), domain.ErrInvalidInput)
	require.NoError(t, svc.VerifyEmail(ctx, second))

	assert.ErrorIs(t, svc.ResendVerification(ctx, "ann@example.com"), domain.ErrInvalidInput)
}

func TestAccount_PasswordReset(t *testing.T) {
	svc, pub := newAccountService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.VerifyEmail(ctx, pub.last().Data.(AccountEvent).Token))

	assert.ErrorIs(t, svc.RequestPasswordReset(ctx, "ghost@example.com"), domain.ErrNotFound)
	require.NoError(t, svc.RequestPasswordReset(ctx, "ann@example.com"))
	e := pub.last()
	assert.Equal(t, constants.EventPasswordResetRequested, e.Type)
	token := e.Data.(AccountEvent).Token

	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "123"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "", "secret2"), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.ResetPassword(ctx, "bogus", "secret2"), domain.ErrInvalidInput)

	require.NoError(t, svc.ResetPassword(ctx, token, "secret2"))
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "secret3"), domain.ErrInvalidInput)

	_, err = svc.Authenticate(ctx, "ann@example.com", "secret2")
	require.NoError(t, err)
}

func TestAccount_ExpiredResetToken(t *testing.T) {
	svc, pub := newAccountService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, domain.SignUpInput{Username: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(ctx, "ann@example.com"))
	token := pub.last().Data.(AccountEvent).Token

	// 两小时后令牌过期
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "secret2"), domain.ErrInvalidInput)

	n, err := svc.PurgeExpiredResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.PurgeExpiredResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSeed(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	cfg := config.AppConfig{AdminUsername: "admin", AdminEmail: "Admin@Example.com", AdminPassword: "admin123"}

	require.NoError(t, EnsureDefaultRoles(ctx, db))
	require.NoError(t, EnsureDefaultRoles(ctx, db))
	var roles int64
	require.NoError(t, db.Model(&model.Role{}).Count(&roles).Error)
	assert.Equal(t, int64(3), roles)

	require.NoError(t, EnsureAdminUser(ctx, db, cfg, zap.NewNop()))
	require.NoError(t, EnsureAdminUser(ctx, db, cfg, zap.NewNop()))

	var users []model.User
	require.NoError(t, db.Preload("Role").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.True(t, users[0].EmailVerified)
	assert.Equal(t, model.RoleAdmin, users[0].RoleSlug())

	svc := NewAccountService(db, nil, nil)
	_, err := svc.Authenticate(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
}
