package api

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bizledger.com/internal/api/middleware"
	"bizledger.com/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// SendPaginatedResponse 发送分页响应，数据挂在 key 下
// {"<key>": [...], "total": n, "page": p, "limit": l, "totalPages": k}
func SendPaginatedResponse(c *fiber.Ctx, key string, data interface{}, q domain.ListQuery, total int64) error {
	totalPages := 0
	if q.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}

	return c.JSON(fiber.Map{
		key:          data,
		"total":      total,
		"page":       q.Page,
		"limit":      q.Limit,
		"totalPages": totalPages,
	})
}

// parseListQuery 解析 page/limit/search，越界值回落到默认值
func parseListQuery(c *fiber.Ctx) domain.ListQuery {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}

	return domain.ListQuery{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(c.Query("search")),
	}
}

// parseID 解析路径中的 :id
func parseID(c *fiber.Ctx, entity string) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewBadRequestError(fmt.Sprintf("Invalid %s ID", entity))
	}
	return uint(id), nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息里使用 JSON 字段名
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON 解析请求体并做字段校验
func bindJSON(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewBadRequestError("Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.NewBadRequestError(validationMessage(verrs[0]))
		}
		return domain.NewBadRequestError("Invalid request body")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// handleError 把业务错误映射为 HTTP 响应，body 统一为 {"error": "..."}
func handleError(c *fiber.Ctx, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= fiber.StatusInternalServerError {
			middleware.RequestLogger(c).Error("request failed", zap.Error(err))
		}
		return c.Status(appErr.Code).JSON(fiber.Map{"error": appErr.Message})
	}

	middleware.RequestLogger(c).Error("unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// currentUserID 会话中的用户 ID
func currentUserID(c *fiber.Ctx) uint {
	if claims := middleware.CurrentClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
