package config

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return newFieldError("server.port", "必须在 1-65535")
	}
	if c.Server.Proxy.Enabled && strings.TrimSpace(c.Server.Proxy.IPHeader) == "" {
		return newFieldError("server.proxy.ip_header", "启用代理模式时不能为空")
	}

	if strings.TrimSpace(c.Storage.MemesDir) == "" {
		return newFieldError("storage.memes_dir", "不能为空")
	}

	if c.Cache.MaxSize <= 0 {
		return newFieldError("cache.max_size", "必须大于 0")
	}
	if c.Cache.TTL.DurationValue() < 0 {
		return newFieldError("cache.ttl", "不能为负数")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return newFieldError("log.level", "无法识别的日志级别: "+c.Log.Level)
	}
	if c.Log.MaxSize < 0 {
		return newFieldError("log.max_size", "不能为负数")
	}
	if c.Log.MaxBackups < 0 {
		return newFieldError("log.max_backups", "不能为负数")
	}

	return nil
}
