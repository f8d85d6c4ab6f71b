package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadParsesFullConfig(t *testing.T) {
	memesDir := t.TempDir()
	cfg := `
server:
  host: 127.0.0.1
  port: 8080
  proxy:
    enabled: true
    ip_header: x-real-ip
storage:
  memes_dir: ` + memesDir + `
cache:
  max_size: 64
  ttl: 5m
log:
  level: debug
`
	path := writeTempConfig(t, cfg)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if loaded.Server.Host != "127.0.0.1" || loaded.Server.Port != 8080 {
		t.Fatalf("server 字段解析错误: %+v", loaded.Server)
	}
	if !loaded.Server.Proxy.Enabled || loaded.Server.Proxy.IPHeader != "x-real-ip" {
		t.Fatalf("proxy 字段解析错误: %+v", loaded.Server.Proxy)
	}
	if loaded.Cache.MaxSize != 64 {
		t.Fatalf("cache.max_size 应为 64，得到 %d", loaded.Cache.MaxSize)
	}
	if loaded.Cache.TTL.DurationValue() != 5*time.Minute {
		t.Fatalf("cache.ttl 应为 5m，得到 %v", loaded.Cache.TTL.DurationValue())
	}
	if loaded.ListenAddr() != "127.0.0.1:8080" {
		t.Fatalf("ListenAddr 错误: %s", loaded.ListenAddr())
	}
}

func TestLoadAcceptsIntegerSecondsTTL(t *testing.T) {
	memesDir := t.TempDir()
	path := writeTempConfig(t, `
storage:
  memes_dir: `+memesDir+`
cache:
  ttl: 300
`)
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if loaded.Cache.TTL.DurationValue() != 300*time.Second {
		t.Fatalf("纯数字 TTL 应按秒解析，得到 %v", loaded.Cache.TTL.DurationValue())
	}
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	path := writeTempConfig(t, `
cache:
  ttl: boom
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("无效 Duration 应失败")
	}
}

func TestLoadWritesDefaultConfigWhenMissing(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "config.yml")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("缺失配置应自举默认值: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("预期写出默认配置文件: %v", err)
	}
	if loaded.Server.Port != 3001 {
		t.Fatalf("默认端口应为 3001，得到 %d", loaded.Server.Port)
	}
	if loaded.Cache.MaxSize != 100 || loaded.Cache.TTL.DurationValue() != 300*time.Second {
		t.Fatalf("默认缓存参数错误: %+v", loaded.Cache)
	}
	if _, err := os.Stat(loaded.Storage.MemesDir); err != nil {
		t.Fatalf("预期创建表情包目录: %v", err)
	}
}

func TestLoadCreatesMemesDir(t *testing.T) {
	dir := t.TempDir()
	memesDir := filepath.Join(dir, "memes")
	path := writeTempConfig(t, `
storage:
  memes_dir: `+memesDir+`
`)
	if _, err := Load(path); err != nil {
		t.Fatalf("加载失败: %v", err)
	}
	if _, err := os.Stat(memesDir); err != nil {
		t.Fatalf("预期创建表情包目录: %v", err)
	}
}
