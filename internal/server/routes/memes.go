// Package routes 注册面向用户的表情包接口，并独占错误码翻译：
// 资源缺失一律 404，其余 IO 失败一律 500，流水线层不关心状态码。
package routes

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/jiangtokoto/meme-hub/internal/config"
	"github.com/jiangtokoto/meme-hub/internal/logging"
	"github.com/jiangtokoto/meme-hub/internal/meme"
	"github.com/jiangtokoto/meme-hub/internal/server"
)

// 命中信息通过响应头暴露，便于压测与排障时直接观察缓存行为。
const cacheHitHeader = "X-Meme-Hub-Cache-Hit"

// Deps 汇总 handler 依赖，避免散落的包级状态。
type Deps struct {
	Service server.MemeService
	Logger  *logrus.Logger
	Proxy   config.ProxyConfig
}

// RegisterMemeRoutes 挂载 /memes 下的全部接口。
// 静态路径必须先于 /:id 注册。
func RegisterMemeRoutes(app *fiber.App, deps Deps) {
	if app == nil || deps.Service == nil {
		return
	}

	app.Get("/memes/random", func(c fiber.Ctx) error {
		content, err := deps.Service.Random(c.Context())
		if err != nil {
			return renderError(c, deps.Logger, err)
		}
		return sendContent(c, deps, content)
	})

	app.Get("/memes/health", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/memes/count", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"count": deps.Service.Count()})
	})

	app.Get("/memes/statistics", func(c fiber.Ctx) error {
		return c.JSON(deps.Service.Stats())
	})

	app.Get("/memes", func(c fiber.Ctx) error {
		return c.JSON(deps.Service.List())
	})

	app.Get("/memes/:id", func(c fiber.Ctx) error {
		raw := c.Params("id")
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "invalid_id",
				"message": "meme id must be a 32-bit unsigned integer",
			})
		}

		content, err := deps.Service.ByID(c.Context(), uint32(id))
		if err != nil {
			return renderError(c, deps.Logger, err)
		}
		return sendContent(c, deps, content)
	})
}

// sendContent 输出正文与 Content-Type，并记录一条带命中信息的访问日志。
func sendContent(c fiber.Ctx, deps Deps, content *meme.Content) error {
	c.Set(fiber.HeaderContentType, content.MIME)
	c.Set(cacheHitHeader, strconv.FormatBool(content.CacheHit))

	fields := logging.RequestFields(
		content.Asset.ID,
		content.MIME,
		content.CacheHit,
		server.ClientIP(c, deps.Proxy),
	)
	deps.Logger.WithFields(fields).Info("返回表情包")

	return c.Send(content.Body)
}

// renderError 将流水线错误翻译为状态码：资源缺失 404，其余 500。
func renderError(c fiber.Ctx, logger *logrus.Logger, err error) error {
	if errors.Is(err, meme.ErrNoMemes) || errors.Is(err, meme.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": err.Error(),
		})
	}

	logger.WithError(err).Error("获取表情包失败")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "internal server error",
	})
}
