package api

import (
	"errors"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"bizledger.com/internal/api/middleware"
	"bizledger.com/internal/engine"
)

func NewServer(eng *engine.Engine, enforcer *casbin.Enforcer) *fiber.App {
	cfg := eng.GetConfig()
	log := eng.GetLogger().Named("http")

	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.AppName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal server error"
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code, msg = fe.Code, fe.Message
			} else {
				middleware.RequestLogger(c).Error("unhandled error", zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{"error": msg})
		},
	})

	metrics := middleware.NewMetrics("bizledger")

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Logger(log))
	app.Use(metrics.Handler())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Expose())

	NewRouter(app, eng, enforcer).RegisterRoutes()

	return app
}
