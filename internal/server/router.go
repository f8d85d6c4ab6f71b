package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jiangtokoto/meme-hub/internal/config"
	"github.com/jiangtokoto/meme-hub/internal/meme"
	"github.com/jiangtokoto/meme-hub/internal/metrics"
)

// MemeService 描述 HTTP 层依赖的流水线能力，便于在测试中注入桩实现。
type MemeService interface {
	Random(ctx context.Context) (*meme.Content, error)
	ByID(ctx context.Context, id uint32) (*meme.Content, error)
	List() []meme.Asset
	Count() int
	Stats() meme.StatsSnapshot
}

// AppOptions 控制 Fiber 应用的组装方式。
type AppOptions struct {
	Logger  *logrus.Logger
	Service MemeService
	Metrics *metrics.Metrics
	Proxy   config.ProxyConfig
}

const contextKeyRequestID = "_memehub_request_id"

// NewApp 构建带恢复、CORS、请求 ID 与结构化访问日志的 Fiber 应用。
// 路由注册由 routes 包完成。
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Service == nil {
		return nil, errors.New("meme service is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestContextMiddleware(opts))

	if opts.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(opts.Metrics.Handler()))
	}

	return app, nil
}

// requestContextMiddleware 生成请求 ID 并输出带耗时与客户端 IP 的访问日志。
func requestContextMiddleware(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		if opts.Metrics != nil {
			opts.Metrics.RequestDuration.Observe(latency.Seconds())
		}

		opts.Logger.WithFields(logrus.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency_ms": latency.Milliseconds(),
			"ip":         ClientIP(c, opts.Proxy),
			"request_id": reqID,
		}).Info("响应完成")

		return err
	}
}

// ClientIP 还原真实客户端 IP。启用代理模式时优先读取配置的头部，
// 多级代理以逗号分隔时取第一跳。
func ClientIP(c fiber.Ctx, proxy config.ProxyConfig) string {
	if proxy.Enabled {
		raw := c.Get(proxy.IPHeader)
		if raw == "" {
			return "unknown"
		}
		first, _, _ := strings.Cut(raw, ",")
		return strings.TrimSpace(first)
	}
	return c.IP()
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
