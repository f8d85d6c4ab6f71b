package meme

import (
	"sync"
	"sync/atomic"
	"time"
)

// 请求时间戳最多保留 15 分钟，覆盖统计接口的所有窗口。
const requestHistoryWindow = 15 * time.Minute

// StatsSnapshot 是统计接口返回的聚合视图。
type StatsSnapshot struct {
	TotalRequests        uint64  `json:"total_requests"`
	RequestsLastMinute   uint64  `json:"requests_last_minute"`
	RequestsLast5Min     uint64  `json:"requests_last_5min"`
	RequestsLast15Min    uint64  `json:"requests_last_15min"`
	ServiceUptimeSeconds uint64  `json:"service_uptime_seconds"`
	TotalMemes           int     `json:"total_memes"`
	LastUpdated          string  `json:"last_updated"`
	CacheHits            uint64  `json:"cache_hits"`
	CacheMisses          uint64  `json:"cache_misses"`
	CacheHitRate         float64 `json:"cache_hit_rate"`
}

// statsRecorder 记录请求计数、滑动窗口时间戳与缓存命中情况。
// 计数器用原子操作，时间戳队列用互斥锁保护。
type statsRecorder struct {
	requestCount atomic.Uint64
	cacheHits    atomic.Uint64
	cacheMisses  atomic.Uint64
	startTime    time.Time

	mu         sync.Mutex
	timestamps []time.Time
	now        func() time.Time
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{
		startTime:  time.Now(),
		timestamps: make([]time.Time, 0, 2048),
		now:        time.Now,
	}
}

// RecordRequest 增加请求计数并登记时间戳，同时裁剪窗口外的历史记录。
func (s *statsRecorder) RecordRequest() {
	s.requestCount.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.prune(now)
	s.timestamps = append(s.timestamps, now)
}

func (s *statsRecorder) RecordHit()  { s.cacheHits.Add(1) }
func (s *statsRecorder) RecordMiss() { s.cacheMisses.Add(1) }

// CacheCounters 返回累计命中/未命中次数。
func (s *statsRecorder) CacheCounters() (hits, misses uint64) {
	return s.cacheHits.Load(), s.cacheMisses.Load()
}

// RequestsInWindow 统计最近 window 内的请求数。
func (s *statsRecorder) RequestsInWindow(window time.Duration) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.prune(now)

	var count uint64
	for _, ts := range s.timestamps {
		if now.Sub(ts) <= window {
			count++
		}
	}
	return count
}

// prune 丢弃超出保留窗口的时间戳，调用方必须持有锁。
func (s *statsRecorder) prune(now time.Time) {
	cut := 0
	for cut < len(s.timestamps) && now.Sub(s.timestamps[cut]) > requestHistoryWindow {
		cut++
	}
	if cut > 0 {
		s.timestamps = append(s.timestamps[:0], s.timestamps[cut:]...)
	}
}

// Snapshot 聚合当前统计数据。
func (s *statsRecorder) Snapshot(totalMemes int, lastUpdated time.Time) StatsSnapshot {
	hits, misses := s.CacheCounters()
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return StatsSnapshot{
		TotalRequests:        s.requestCount.Load(),
		RequestsLastMinute:   s.RequestsInWindow(time.Minute),
		RequestsLast5Min:     s.RequestsInWindow(5 * time.Minute),
		RequestsLast15Min:    s.RequestsInWindow(15 * time.Minute),
		ServiceUptimeSeconds: uint64(s.now().Sub(s.startTime) / time.Second),
		TotalMemes:           totalMemes,
		LastUpdated:          lastUpdated.UTC().Format(time.RFC3339),
		CacheHits:            hits,
		CacheMisses:          misses,
		CacheHitRate:         hitRate,
	}
}
