package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bizledger.com/internal/auth"
	"bizledger.com/internal/infra"
	"bizledger.com/internal/model"
	"bizledger.com/internal/testutil"
)

func newAuthApp(t *testing.T) (*fiber.App, *auth.TokenManager, *infra.TokenBlacklist) {
	t.Helper()
	enforcer, err := auth.InitCasbin(testutil.NewDB(t), nil)
	require.NoError(t, err)
	_, rdb := testutil.NewRedis(t)

	tokens := auth.NewTokenManager("middleware-secret", time.Hour)
	blacklist := infra.NewTokenBlacklist(rdb)

	app := fiber.New()
	app.Use(Session(tokens, blacklist), Authorize(enforcer))
	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"role": c.Locals("role")})
	}
	app.Get("/api/customers", ok)
	app.Post("/api/customers", ok)
	app.Post("/api/roles", ok)
	return app, tokens, blacklist
}

func issue(t *testing.T, tokens *auth.TokenManager, slug string) (string, *auth.Claims) {
	t.Helper()
	token, claims, err := tokens.Issue(&model.User{ID: 7, Email: "u@example.com", Username: "u", Role: &model.Role{Slug: slug}})
	require.NoError(t, err)
	return token, claims
}

func call(t *testing.T, app *fiber.App, method, path, bearer string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthorize(t *testing.T) {
	app, tokens, _ := newAuthApp(t)
	user, _ := issue(t, tokens, model.RoleUser)
	custom, _ := issue(t, tokens, "cashier")
	admin, _ := issue(t, tokens, model.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"anonymous read", http.MethodGet, "/api/customers", "", http.StatusOK},
		{"anonymous write", http.MethodPost, "/api/customers", "", http.StatusForbidden},
		{"bad token is anonymous", http.MethodPost, "/api/customers", "not-a-jwt", http.StatusForbidden},
		{"user write", http.MethodPost, "/api/customers", user, http.StatusOK},
		{"custom role acts as user", http.MethodPost, "/api/customers", custom, http.StatusOK},
		{"user on roles", http.MethodPost, "/api/roles", user, http.StatusForbidden},
		{"admin on roles", http.MethodPost, "/api/roles", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(t, app, tt.method, tt.path, tt.token))
		})
	}
}

func TestSession_RevokedTokenIsAnonymous(t *testing.T) {
	app, tokens, blacklist := newAuthApp(t)
	token, claims := issue(t, tokens, model.RoleUser)

	assert.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/customers", token))

	require.NoError(t, blacklist.Revoke(context.Background(), claims.ID, time.Hour))
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/customers", token))
}

func TestSession_Cookie(t *testing.T) {
	app, tokens, _ := newAuthApp(t)
	token, _ := issue(t, tokens, model.RoleUser)

	req := httptest.NewRequest(http.MethodPost, "/api/customers", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogger_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := fiber.New()
	app.Use(Logger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}
