package meme

import (
	"crypto/sha256"
	"encoding/binary"
)

// Asset 描述索引中的一个表情包文件。MIME 在扫描时按扩展名推断，
// 仅用于列表展示；实际响应的 Content-Type 以加载后的内容嗅探为准。
type Asset struct {
	ID        uint32 `json:"id"`
	Path      string `json:"-"`
	Filename  string `json:"filename"`
	MIME      string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// assetID 取文件名 SHA-256 的前 4 字节作为稳定 ID，
// 同名文件在重载前后保持相同 ID。
func assetID(filename string) uint32 {
	sum := sha256.Sum256([]byte(filename))
	return binary.BigEndian.Uint32(sum[:4])
}
