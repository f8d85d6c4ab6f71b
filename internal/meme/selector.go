package meme

import "math/rand/v2"

// Selector 从索引快照中均匀随机挑选一个表情包。
// 自身无状态，使用进程级随机源，可被任意并发调用。
type Selector struct {
	index *Index
}

// NewSelector 绑定索引，构建随机选择器。
func NewSelector(index *Index) *Selector {
	return &Selector{index: index}
}

// Pick 均匀随机返回资源池中的一个条目；资源池为空时返回 ErrNoMemes。
func (s *Selector) Pick() (Asset, error) {
	assets := s.index.Snapshot()
	if len(assets) == 0 {
		return Asset{}, ErrNoMemes
	}
	return assets[rand.IntN(len(assets))], nil
}
