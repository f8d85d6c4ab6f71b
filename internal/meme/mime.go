package meme

import (
	"mime"
	"net/http"
	"path/filepath"
)

const octetStream = "application/octet-stream"

// DetectMIME 根据文件内容嗅探 MIME 类型，嗅探结果过于宽泛时退回扩展名。
// 纯函数，仅在缓存未命中加载磁盘内容后调用。
func DetectMIME(body []byte, path string) string {
	sniffed := http.DetectContentType(body)
	if sniffed == octetStream {
		if byExt := mimeByExtension(path); byExt != "" {
			return byExt
		}
	}
	return sniffed
}

// mimeByExtension 按扩展名推断 MIME，用于索引阶段的列表展示。
func mimeByExtension(path string) string {
	return mime.TypeByExtension(filepath.Ext(path))
}
