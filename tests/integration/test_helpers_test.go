package integration

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/jiangtokoto/meme-hub/internal/cache"
	"github.com/jiangtokoto/meme-hub/internal/meme"
	"github.com/jiangtokoto/meme-hub/internal/metrics"
	"github.com/jiangtokoto/meme-hub/internal/server"
	"github.com/jiangtokoto/meme-hub/internal/server/routes"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// memeApp 聚合一套完整的服务装配，供集成测试复用。
type memeApp struct {
	App     *fiber.App
	Index   *meme.Index
	Store   cache.Store
	Service *meme.Service
	Metrics *metrics.Metrics
}

func writeMemeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := append(append([]byte{}, pngHeader...), []byte(name)...)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("写入表情包失败: %v", err)
	}
	return path
}

// newMemeApp 按照生产启动顺序装配：索引 → 缓存 → 流水线 → Fiber 应用。
func newMemeApp(t *testing.T, dir string, capacity int, ttl time.Duration) *memeApp {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	index, err := meme.NewIndex(dir, logger)
	if err != nil {
		t.Fatalf("构建索引失败: %v", err)
	}

	store, err := cache.NewStore(capacity, ttl)
	if err != nil {
		t.Fatalf("构建缓存失败: %v", err)
	}

	m := metrics.New()
	service := meme.NewService(index, store, logger, m)

	app, err := server.NewApp(server.AppOptions{
		Logger:  logger,
		Service: service,
		Metrics: m,
	})
	if err != nil {
		t.Fatalf("构建应用失败: %v", err)
	}
	routes.RegisterMemeRoutes(app, routes.Deps{Service: service, Logger: logger})

	return &memeApp{App: app, Index: index, Store: store, Service: service, Metrics: m}
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string][]string, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("请求 %s 失败: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("读取响应失败: %v", err)
	}
	return resp.StatusCode, resp.Header, body
}

func headerValue(header map[string][]string, key string) string {
	values := header[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
