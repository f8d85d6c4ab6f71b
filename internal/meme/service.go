package meme

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/jiangtokoto/meme-hub/internal/cache"
	"github.com/jiangtokoto/meme-hub/internal/metrics"
)

// Content 是一次请求的响应载荷：正文字节、Content-Type 与命中信息。
type Content struct {
	Asset    Asset
	Body     []byte
	MIME     string
	CacheHit bool
}

// ReadFileFunc 抽象磁盘读取，测试中可注入计数桩。
type ReadFileFunc func(path string) ([]byte, error)

// Service 编排 Selector → 缓存 → 磁盘的加载流水线。
// 缓存未命中时同一路径的并发加载会被 singleflight 合并，
// 避免重复磁盘读；加载失败不会在缓存中留下任何状态。
type Service struct {
	index    *Index
	selector *Selector
	store    cache.Store
	logger   *logrus.Logger
	metrics  *metrics.Metrics
	stats    *statsRecorder
	group    singleflight.Group
	readFile ReadFileFunc
}

// ServiceOption 调整 Service 的可注入依赖。
type ServiceOption func(*Service)

// WithReadFile 替换磁盘读取实现，仅用于测试。
func WithReadFile(fn ReadFileFunc) ServiceOption {
	return func(s *Service) { s.readFile = fn }
}

// NewService 组装流水线。index/store/metrics 由启动阶段构建并共享。
func NewService(index *Index, store cache.Store, logger *logrus.Logger, m *metrics.Metrics, opts ...ServiceOption) *Service {
	s := &Service{
		index:    index,
		selector: NewSelector(index),
		store:    store,
		logger:   logger,
		metrics:  m,
		stats:    newStatsRecorder(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	m.TotalMemes.Set(float64(index.Len()))
	return s
}

// Random 随机挑选一个表情包并返回其内容。
// 资源池为空时返回 ErrNoMemes，不触碰缓存。
func (s *Service) Random(ctx context.Context) (*Content, error) {
	s.recordRequest()

	asset, err := s.selector.Pick()
	if err != nil {
		return nil, err
	}
	return s.load(ctx, asset)
}

// ByID 按 ID 返回指定表情包的内容。
func (s *Service) ByID(ctx context.Context, id uint32) (*Content, error) {
	s.recordRequest()

	asset, ok := s.index.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return s.load(ctx, asset)
}

// List 返回按 ID 排序的全部资源，供列表接口直接序列化。
func (s *Service) List() []Asset {
	return s.index.Snapshot()
}

// Count 返回资源池大小。
func (s *Service) Count() int {
	return s.index.Len()
}

// Stats 聚合请求与缓存统计。
func (s *Service) Stats() StatsSnapshot {
	return s.stats.Snapshot(s.index.Len(), s.index.LastUpdated())
}

// load 执行缓存查询与未命中回源。错误不重试，直接上抛由 HTTP 层翻译。
func (s *Service) load(ctx context.Context, asset Asset) (*Content, error) {
	if entry, ok := s.store.Get(asset.Path); ok {
		s.stats.RecordHit()
		s.metrics.CacheHits.Inc()
		s.updateCacheMetrics()
		s.logger.WithFields(logrus.Fields{
			"meme_id":   asset.ID,
			"cache_hit": true,
		}).Debug("缓存命中")
		return &Content{Asset: asset, Body: entry.Body, MIME: entry.MIME, CacheHit: true}, nil
	}

	s.stats.RecordMiss()
	s.metrics.CacheMisses.Inc()
	s.logger.WithFields(logrus.Fields{
		"meme_id":   asset.ID,
		"cache_hit": false,
	}).Debug("缓存未命中")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(asset.Path, func() (interface{}, error) {
		body, err := s.readFile(asset.Path)
		if err != nil {
			return nil, err
		}
		mimeType := DetectMIME(body, asset.Path)
		s.store.Put(asset.Path, body, mimeType)
		return &Content{Asset: asset, Body: body, MIME: mimeType, CacheHit: false}, nil
	})
	s.updateCacheMetrics()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// 索引与文件系统竞争：文件在扫描后被删除
			return nil, fmt.Errorf("%w: %s", ErrNotFound, asset.Filename)
		}
		return nil, fmt.Errorf("读取表情包失败: %w", err)
	}
	return v.(*Content), nil
}

func (s *Service) recordRequest() {
	s.stats.RecordRequest()
	s.metrics.RequestsTotal.Inc()
}

// updateCacheMetrics 刷新命中率与缓存大小两个 Gauge。
func (s *Service) updateCacheMetrics() {
	hits, misses := s.stats.CacheCounters()
	if total := hits + misses; total > 0 {
		s.metrics.CacheHitRate.Set(float64(hits) / float64(total))
	}
	s.metrics.CacheSize.Set(float64(s.store.Len()))
	s.metrics.TotalMemes.Set(float64(s.index.Len()))
}
