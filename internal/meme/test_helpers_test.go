package meme

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jiangtokoto/meme-hub/internal/cache"
	"github.com/jiangtokoto/meme-hub/internal/metrics"
)

// pngHeader 是合法 PNG 的魔数，足以让内容嗅探识别为 image/png。
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// writeMeme 在目录下写出一个带 PNG 魔数的文件并返回其路径。
func writeMeme(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	body := append(append([]byte{}, pngHeader...), []byte(name)...)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
	return path
}

func newTestIndex(t *testing.T, dir string) *Index {
	t.Helper()
	idx, err := NewIndex(dir, discardLogger())
	if err != nil {
		t.Fatalf("构建索引失败: %v", err)
	}
	return idx
}

func newTestService(t *testing.T, dir string, capacity int, opts ...ServiceOption) (*Service, cache.Store) {
	t.Helper()
	idx := newTestIndex(t, dir)
	store, err := cache.NewStore(capacity, time.Hour)
	if err != nil {
		t.Fatalf("构建缓存失败: %v", err)
	}
	return NewService(idx, store, discardLogger(), metrics.New(), opts...), store
}
