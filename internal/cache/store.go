package cache

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

// Entry 表示一条已加载进内存的表情包内容。Body 在写入后只读共享，
// 调用方不得修改。
type Entry struct {
	Key        string
	Body       []byte
	MIME       string
	LoadedAt   time.Time
	LastAccess time.Time
}

// Store 负责内存缓存的读写。容量与 TTL 在构造时固定，运行期不再调整。
type Store interface {
	// Get 返回未过期的条目副本并刷新其访问顺序；条目缺失或已过期时
	// 返回 false，过期条目会作为副作用被移除。
	Get(key string) (Entry, bool)

	// Put 插入或覆盖条目。新键在容量已满时先驱逐最久未访问的条目；
	// 覆盖已有键只重置其新鲜度与访问顺序，不触发驱逐。
	Put(key string, body []byte, mime string)

	// Len 返回当前条目数，供诊断与指标上报使用。
	Len() int

	// Contains 报告键是否存在（不检查过期，不影响访问顺序）。
	Contains(key string) bool
}

// NewStore 构建内存缓存，整个进程复用一份实例。
func NewStore(capacity int, ttl time.Duration) (Store, error) {
	if capacity <= 0 {
		return nil, errors.New("cache capacity must be positive")
	}
	if ttl < 0 {
		return nil, errors.New("cache ttl must not be negative")
	}
	return &memoryStore{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}, nil
}

// memoryStore 以 map + 双向链表维护访问顺序：链表头部是最近访问的条目，
// 尾部即 LRU 驱逐候选。相同访问时间的条目按插入先后排列，先插入者更靠近
// 尾部，因此驱逐时自然优先淘汰较早插入的键。
type memoryStore struct {
	capacity int
	ttl      time.Duration

	mu    sync.Mutex
	order *list.List
	items map[string]*list.Element

	// now 可在测试中替换，便于验证 TTL 边界行为。
	now func() time.Time
}

func (s *memoryStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return Entry{}, false
	}

	entry := el.Value.(*Entry)
	now := s.now()
	if now.Sub(entry.LoadedAt) > s.ttl {
		// 懒惰过期：在访问时发现超龄即移除
		s.order.Remove(el)
		delete(s.items, key)
		return Entry{}, false
	}

	entry.LastAccess = now
	s.order.MoveToFront(el)
	return *entry, true
}

func (s *memoryStore) Put(key string, body []byte, mime string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry := &Entry{
		Key:        key,
		Body:       body,
		MIME:       mime,
		LoadedAt:   now,
		LastAccess: now,
	}

	if el, ok := s.items[key]; ok {
		el.Value = entry
		s.order.MoveToFront(el)
		return
	}

	if s.order.Len() >= s.capacity {
		s.evictOldest()
	}
	s.items[key] = s.order.PushFront(entry)
}

func (s *memoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *memoryStore) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok
}

// evictOldest 移除链表尾部的 LRU 条目，调用方必须持有锁。
func (s *memoryStore) evictOldest() {
	tail := s.order.Back()
	if tail == nil {
		return
	}
	entry := s.order.Remove(tail).(*Entry)
	delete(s.items, entry.Key)
}
