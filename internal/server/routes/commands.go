package routes

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"github.com/sync-desk/sync-desk/internal/apiconfig"
	"github.com/sync-desk/sync-desk/internal/cache"
	"github.com/sync-desk/sync-desk/internal/version"
)

// Dependencies 汇总命令路由需要的服务实例，便于测试注入。
type Dependencies struct {
	Cache     *cache.Manager
	APIConfig *apiconfig.Store
}

// RegisterCommandRoutes 挂载 GUI 消费的全部命令接口。
// 路由即命令：每个端点对应桌面端暴露给前端的一条命令。
func RegisterCommandRoutes(app *fiber.App, deps Dependencies) {
	if app == nil || deps.Cache == nil || deps.APIConfig == nil {
		return
	}

	app.Post("/api/files/resolve", func(c fiber.Ctx) error {
		var req resolvePayload
		if err := json.Unmarshal(c.Body(), &req); err != nil || req.URL == "" {
			return badRequest(c, "url_required")
		}
		path := deps.Cache.Resolve(requestContext(c), req.URL)
		return c.JSON(fiber.Map{"path": path})
	})

	app.Post("/api/files/cache/clear", func(c fiber.Ctx) error {
		if err := deps.Cache.ClearCache(); err != nil {
			return internalError(c, "cache_clear_failed", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/api/files/cache/size", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"size_bytes": deps.Cache.CacheSizeBytes()})
	})

	app.Post("/api/files/save", func(c fiber.Ctx) error {
		var req savePayload
		if err := json.Unmarshal(c.Body(), &req); err != nil || req.Path == "" {
			return badRequest(c, "path_required")
		}
		if err := deps.Cache.SaveBytesToPath(req.Path, req.Data); err != nil {
			return internalError(c, "file_save_failed", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/api/files/read", func(c fiber.Ctx) error {
		var req readPayload
		if err := json.Unmarshal(c.Body(), &req); err != nil || req.Path == "" {
			return badRequest(c, "path_required")
		}
		data, err := deps.Cache.ReadBytesFromPath(req.Path)
		if err != nil {
			return internalError(c, "file_read_failed", err)
		}
		return c.JSON(fiber.Map{"data": data})
	})

	app.Get("/api/device", func(c fiber.Ctx) error {
		snapshot := deps.APIConfig.Snapshot()
		return c.JSON(fiber.Map{
			"device_id":   snapshot.DeviceID,
			"device_name": snapshot.DeviceName,
		})
	})

	app.Post("/api/config", func(c fiber.Ctx) error {
		var req configPayload
		if err := json.Unmarshal(c.Body(), &req); err != nil || req.APIURL == "" {
			return badRequest(c, "api_url_required")
		}
		if err := deps.APIConfig.Set(req.APIURL, req.Token); err != nil {
			return internalError(c, "config_save_failed", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/api/config/status", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"configured": deps.APIConfig.Configured()})
	})

	app.Delete("/api/config", func(c fiber.Ctx) error {
		if err := deps.APIConfig.Clear(); err != nil {
			return internalError(c, "config_clear_failed", err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/-/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "ok",
			"version":          version.Full(),
			"cache_size_bytes": deps.Cache.CacheSizeBytes(),
		})
	})
}

type resolvePayload struct {
	URL string `json:"url"`
}

type savePayload struct {
	Path string `json:"path"`
	Data []byte `json:"data"`
}

type readPayload struct {
	Path string `json:"path"`
}

type configPayload struct {
	APIURL string `json:"api_url"`
	Token  string `json:"token"`
}

func badRequest(c fiber.Ctx, code string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": code})
}

func internalError(c fiber.Ctx, code string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":  code,
		"detail": err.Error(),
	})
}

func requestContext(c fiber.Ctx) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
