package meme

import "errors"

var (
	// ErrNoMemes 表示当前资源池为空，没有可供随机选择的表情包。
	ErrNoMemes = errors.New("no memes available")

	// ErrNotFound 表示指定的表情包不存在（ID 未知或文件已被删除）。
	ErrNotFound = errors.New("meme not found")
)
