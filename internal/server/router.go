package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sync-desk/sync-desk/internal/apiconfig"
	"github.com/sync-desk/sync-desk/internal/cache"
)

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger     *logrus.Logger
	Cache      *cache.Manager
	APIConfig  *apiconfig.Store
	ListenPort int
}

const contextKeyRequestID = "_syncdesk_request_id"

// NewApp builds a Fiber application with request-id middleware, structured
// access logging, and JSON error handling. Command routes are registered
// separately by the routes subpackage.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Cache == nil {
		return nil, errors.New("cache manager is required")
	}
	if opts.APIConfig == nil {
		return nil, errors.New("api config store is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts))

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID 并输出统一的访问日志。
func requestContextMiddleware(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		started := time.Now()
		err := c.Next()

		fields := logrus.Fields{
			"action":     "command",
			"method":     c.Method(),
			"path":       string(c.Request().URI().Path()),
			"status":     c.Response().StatusCode(),
			"elapsed_ms": time.Since(started).Milliseconds(),
			"request_id": reqID,
		}
		if err != nil {
			fields["error"] = err.Error()
			opts.Logger.WithFields(fields).Error("command_failed")
			return err
		}
		opts.Logger.WithFields(fields).Info("command_complete")
		return nil
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}
