package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const localLogger = "logger"

// Logger 请求日志，带 request id
func Logger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqLog := log
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			reqLog = log.With(zap.String("request_id", rid))
		}
		c.Locals(localLogger, reqLog)

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			reqLog.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			reqLog.Warn("request", fields...)
		default:
			reqLog.Info("request", fields...)
		}
		return err
	}
}

// RequestLogger returns the per-request logger, or a no-op logger outside the chain.
func RequestLogger(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(localLogger).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
