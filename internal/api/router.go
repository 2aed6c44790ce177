package api

import (
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"bizledger.com/internal/api/middleware"
	"bizledger.com/internal/engine"
)

// Router 负责注册所有路由
type Router struct {
	app      *fiber.App
	eng      *engine.Engine
	enforcer *casbin.Enforcer
	router   fiber.Router // /api group
}

func NewRouter(app *fiber.App, eng *engine.Engine, enforcer *casbin.Enforcer) *Router {
	return &Router{
		app:      app,
		eng:      eng,
		enforcer: enforcer,
	}
}

// RegisterRoutes 注册所有业务路由
func (r *Router) RegisterRoutes() {
	// 1. 会话解析 + RBAC，所有 /api 路由都经过
	r.router = r.app.Group("/api",
		middleware.Session(r.eng.GetTokenManager(), r.eng.GetTokenBlacklist()),
		middleware.Authorize(r.enforcer),
	)

	// 2. 分组注册子路由
	r.registerAuthRoutes()
	r.registerEntityRoutes()
	r.registerUserRoutes()
	r.registerAdminRoutes()
}

func (r *Router) registerAuthRoutes() {
	h := NewAuthHandler(r.eng.GetAccountService(), r.eng.GetTokenManager(), r.eng.GetTokenBlacklist())

	authLimit := r.eng.GetConfig().Server.AuthRateLimit
	group := r.router.Group("/auth")
	if authLimit > 0 {
		group.Use(limiter.New(limiter.Config{
			Max:        authLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests"})
			},
		}))
	}

	group.Post("/signup", h.SignUp)
	group.Post("/verify-email", h.VerifyEmail)
	group.Post("/resend-verification", h.ResendVerification)
	group.Post("/forgot-password", h.ForgotPassword)
	group.Post("/reset-password", h.ResetPassword)
	group.Post("/update-password", h.ResetPassword)
	group.Post("/signin", h.SignIn)
	group.Post("/signout", h.SignOut)
	group.Get("/me", h.Me)
}

// crudHandler 每个业务实体的五个操作
type crudHandler interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

func (r *Router) registerEntityRoutes() {
	entities := map[string]crudHandler{
		"/customers":     NewCustomerHandler(r.eng.GetCustomerService()),
		"/suppliers":     NewSupplierHandler(r.eng.GetSupplierService()),
		"/purchases":     NewPurchaseHandler(r.eng.GetPurchaseService()),
		"/sales":         NewSaleHandler(r.eng.GetSaleService()),
		"/expenses":      NewExpenseHandler(r.eng.GetExpenseService()),
		"/salePurchases": NewSalePurchaseHandler(r.eng.GetSalePurchaseService()),
		"/roles":         NewRoleHandler(r.eng.GetRoleService()),
	}

	for prefix, h := range entities {
		g := r.router.Group(prefix)
		g.Get("/", h.List)
		g.Post("/", h.Create)
		g.Get("/:id", h.Get)
		g.Put("/:id", h.Update)
		g.Delete("/:id", h.Delete)
	}
}

func (r *Router) registerUserRoutes() {
	h := NewUserHandler(r.eng.GetUserService())
	r.router.Get("/users", h.List)
	r.router.Post("/update-role", h.UpdateRole)
}

func (r *Router) registerAdminRoutes() {
	h := NewAdminHandler(r.eng.GetSummaryService())
	r.router.Get("/admin/summary", h.Summary)
}
