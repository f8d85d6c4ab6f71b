package meme

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Index 维护表情包目录的内存快照。启动时扫描一次，之后由目录 watcher
// 触发重载；快照整体替换，读取方拿到的切片不会被原地修改。
type Index struct {
	dir    string
	logger *logrus.Logger

	mu          sync.RWMutex
	assets      []Asset
	byID        map[uint32]Asset
	lastUpdated time.Time

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewIndex 扫描目录并构建初始索引。目录为空不是错误：
// 请求时由 Selector 返回 ErrNoMemes。
func NewIndex(dir string, logger *logrus.Logger) (*Index, error) {
	idx := &Index{
		dir:    dir,
		logger: logger,
		done:   make(chan struct{}),
	}
	if err := idx.Reload(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Reload 重新扫描目录并原子替换快照。扫描失败时保留旧快照。
func (i *Index) Reload() error {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		return fmt.Errorf("扫描表情包目录失败: %w", err)
	}

	assets := make([]Asset, 0, len(entries))
	byID := make(map[uint32]Asset, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// 扫描与删除竞争时跳过该文件
			continue
		}

		filename := entry.Name()
		path := filepath.Join(i.dir, filename)
		mimeType := mimeByExtension(path)
		if mimeType == "" {
			mimeType = octetStream
		}

		asset := Asset{
			ID:        assetID(filename),
			Path:      path,
			Filename:  filename,
			MIME:      mimeType,
			SizeBytes: info.Size(),
		}
		assets = append(assets, asset)
		byID[asset.ID] = asset
	}

	sort.Slice(assets, func(a, b int) bool { return assets[a].ID < assets[b].ID })

	i.mu.Lock()
	i.assets = assets
	i.byID = byID
	i.lastUpdated = time.Now()
	i.mu.Unlock()

	if i.logger != nil {
		i.logger.WithFields(logrus.Fields{
			"action": "index_reload",
			"dir":    i.dir,
			"count":  len(assets),
		}).Info("表情包索引已更新")
	}
	if len(assets) == 0 && i.logger != nil {
		i.logger.WithField("dir", i.dir).Warn("表情包目录为空")
	}
	return nil
}

// Watch 启动目录监控，文件变更后自动重载索引。需调用 Close 停止。
func (i *Index) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建目录监控失败: %w", err)
	}
	if err := watcher.Add(i.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("监控表情包目录失败: %w", err)
	}
	i.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if i.logger != nil {
					i.logger.WithFields(logrus.Fields{
						"action": "fs_event",
						"path":   event.Name,
						"op":     event.Op.String(),
					}).Info("检测到文件变更")
				}
				if err := i.Reload(); err != nil && i.logger != nil {
					i.logger.WithError(err).Error("重新加载表情包失败")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if i.logger != nil {
					i.logger.WithError(err).Error("目录监控出错")
				}
			case <-i.done:
				return
			}
		}
	}()

	if i.logger != nil {
		i.logger.WithField("dir", i.dir).Info("开始监控表情包目录")
	}
	return nil
}

// Close 停止目录监控。未调用 Watch 时为空操作。
func (i *Index) Close() error {
	close(i.done)
	if i.watcher != nil {
		return i.watcher.Close()
	}
	return nil
}

// Snapshot 返回当前资源池。切片在重载时整体替换，调用方可无锁遍历。
func (i *Index) Snapshot() []Asset {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.assets
}

// Lookup 按 ID 查找资源。
func (i *Index) Lookup(id uint32) (Asset, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	asset, ok := i.byID[id]
	return asset, ok
}

// Len 返回资源池大小。
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.assets)
}

// LastUpdated 返回最近一次索引更新时间。
func (i *Index) LastUpdated() time.Time {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.lastUpdated
}
