package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bizledger.com/internal/api/middleware"
	"bizledger.com/internal/auth"
	"bizledger.com/internal/domain"
)

// AuthHandler 注册、邮箱验证、密码重置与会话
type AuthHandler struct {
	accounts  domain.AccountService
	tokens    *auth.TokenManager
	blacklist domain.TokenBlacklist
}

func NewAuthHandler(accounts domain.AccountService, tokens *auth.TokenManager, blacklist domain.TokenBlacklist) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		tokens:    tokens,
		blacklist: blacklist,
	}
}

type emailRequest struct {
	Email string `json:"email"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionUser 会话中的用户信息
type SessionUser struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// SignUp creates an unverified account (default role: user)
// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req domain.SignUpInput
	if err := bindJSON(c, &req); err != nil {
		return handleError(c, err)
	}

	user, err := h.accounts.SignUp(c.UserContext(), req)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Check your email for verification link",
		"user":    user,
	})
}

// VerifyEmail POST /api/auth/verify-email
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req tokenRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, domain.NewBadRequestError("Invalid request body"))
	}
	if err := h.accounts.VerifyEmail(c.UserContext(), req.Token); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email verified successfully"})
}

// ResendVerification POST /api/auth/resend-verification
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, domain.NewBadRequestError("Invalid request body"))
	}
	if err := h.accounts.ResendVerification(c.UserContext(), req.Email); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Verification email resent"})
}

// ForgotPassword POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, domain.NewBadRequestError("Invalid request body"))
	}
	if err := h.accounts.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Check your email for password reset link"})
}

// ResetPassword accepts either "password" or "newPassword"
// POST /api/auth/reset-password, POST /api/auth/update-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, domain.NewBadRequestError("Invalid request body"))
	}
	password := req.Password
	if password == "" {
		password = req.NewPassword
	}
	if err := h.accounts.ResetPassword(c.UserContext(), req.Token, password); err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password reset successfully"})
}

// SignIn authenticates user and returns JWT, also set as the session cookie
// POST /api/auth/signin
func (h *AuthHandler) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return handleError(c, domain.NewBadRequestError("Invalid request body"))
	}

	user, err := h.accounts.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return handleError(c, err)
	}

	token, claims, err := h.tokens.Issue(user)
	if err != nil {
		return handleError(c, domain.NewInternalError("Failed to sign token", err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	middleware.RequestLogger(c).Info("signed in", zap.Uint("user_id", user.ID))
	return c.JSON(fiber.Map{
		"token": token,
		"user":  sessionUser(claims),
	})
}

// SignOut revokes the current token until it expires
// POST /api/auth/signout
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.blacklist.Revoke(c.UserContext(), claims.ID, h.tokens.Remaining(claims)); err != nil {
		return handleError(c, domain.NewInternalError("Failed to sign out", err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// Me 当前会话
// GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return c.JSON(sessionUser(claims))
}

func sessionUser(c *auth.Claims) SessionUser {
	return SessionUser{
		ID:       c.UserID,
		Email:    c.Email,
		Username: c.Username,
		Role:     c.Role,
	}
}
