package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// ProxyConfig 决定如何从反向代理头部还原真实客户端 IP。
type ProxyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	IPHeader string `mapstructure:"ip_header"`
}

// ServerConfig 描述 HTTP 监听行为。
type ServerConfig struct {
	Host  string      `mapstructure:"host"`
	Port  int         `mapstructure:"port"`
	Proxy ProxyConfig `mapstructure:"proxy"`
}

// StorageConfig 指向表情包所在目录，启动时扫描一次并由 watcher 热更新。
type StorageConfig struct {
	MemesDir string `mapstructure:"memes_dir"`
}

// CacheConfig 控制内存缓存的容量上限与条目存活时间。
type CacheConfig struct {
	MaxSize int      `mapstructure:"max_size"`
	TTL     Duration `mapstructure:"ttl"`
}

// LogConfig 控制结构化日志的级别与滚动策略。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

// Config 是 YAML 配置文件映射的整体结构。
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
}

// ListenAddr 拼接 host:port，供 Fiber Listen 使用。
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
