package middleware

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bizledger.com/internal/auth"
	"bizledger.com/internal/domain"
)

const (
	// SessionCookie 会话 cookie 名称
	SessionCookie = "session"

	localClaims = "claims"
)

// Session 解析 Bearer 头或 session cookie 中的 JWT。
// 令牌缺失、无效或已注销时按匿名请求继续，由 Authorize 决定是否拒绝。
func Session(tokens *auth.TokenManager, blacklist domain.TokenBlacklist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := tokenFromRequest(c)
		if raw == "" {
			return c.Next()
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return c.Next()
		}

		if blacklist != nil {
			revoked, err := blacklist.IsRevoked(c.UserContext(), claims.ID)
			if err != nil {
				RequestLogger(c).Error("token blacklist lookup failed", zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
			}
			if revoked {
				return c.Next()
			}
		}

		// Store user info in context for downstream handlers
		c.Locals(localClaims, claims)
		c.Locals("id", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// Authorize checks (role, path, method) against casbin.
// No session: 403 Unauthorized. Role not allowed: 403 Forbidden.
func Authorize(enforcer *casbin.Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)

		sub := auth.SubjectAnonymous
		if claims != nil {
			sub = subjectFor(claims.Role)
		}

		permit, err := enforcer.Enforce(sub, c.Path(), c.Method())
		if err != nil {
			RequestLogger(c).Error("permission check failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Permission check failed"})
		}
		if permit {
			return c.Next()
		}

		if claims == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
}

// CurrentClaims returns the session claims, nil for anonymous requests.
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(localClaims).(*auth.Claims)
	return claims
}

// subjectFor 自定义角色没有独立策略，按普通用户处理
func subjectFor(role string) string {
	switch role {
	case auth.SubjectUser, auth.SubjectStaff, auth.SubjectAdmin:
		return role
	default:
		return auth.SubjectUser
	}
}

func tokenFromRequest(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Cookies(SessionCookie)
}
