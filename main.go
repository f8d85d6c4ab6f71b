package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jiangtokoto/meme-hub/internal/cache"
	"github.com/jiangtokoto/meme-hub/internal/config"
	"github.com/jiangtokoto/meme-hub/internal/logging"
	"github.com/jiangtokoto/meme-hub/internal/meme"
	"github.com/jiangtokoto/meme-hub/internal/metrics"
	"github.com/jiangtokoto/meme-hub/internal/server"
	"github.com/jiangtokoto/meme-hub/internal/server/routes"
	"github.com/jiangtokoto/meme-hub/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["memes_dir"] = cfg.Storage.MemesDir
		fields["cache_max_size"] = cfg.Cache.MaxSize
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动遵循“配置 → 索引 → 内存缓存 → 流水线 → Fiber server”顺序，
	// 保证所有请求共享同一份索引与缓存实例。
	index, err := meme.NewIndex(cfg.Storage.MemesDir, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "构建表情包索引失败: %v\n", err)
		return 1
	}
	defer index.Close()

	if err := index.Watch(); err != nil {
		logger.WithError(err).Warn("目录监控不可用，索引不再热更新")
	}

	store, err := cache.NewStore(cfg.Cache.MaxSize, cfg.Cache.TTL.DurationValue())
	if err != nil {
		fmt.Fprintf(stdErr, "初始化内存缓存失败: %v\n", err)
		return 1
	}

	m := metrics.New()
	service := meme.NewService(index, store, logger, m)

	fields := logging.BaseFields("startup", opts.configPath)
	fields["memes"] = index.Len()
	fields["listen_addr"] = cfg.ListenAddr()
	fields["cache_max_size"] = cfg.Cache.MaxSize
	fields["cache_ttl"] = cfg.Cache.TTL.DurationValue().String()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, service, m, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("meme-hub", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.yml，可被 MEME_HUB_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("MEME_HUB_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.yml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, service *meme.Service, m *metrics.Metrics, logger *logrus.Logger) error {
	app, err := server.NewApp(server.AppOptions{
		Logger:  logger,
		Service: service,
		Metrics: m,
		Proxy:   cfg.Server.Proxy,
	})
	if err != nil {
		return err
	}
	routes.RegisterMemeRoutes(app, routes.Deps{
		Service: service,
		Logger:  logger,
		Proxy:   cfg.Server.Proxy,
	})

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"addr":   cfg.ListenAddr(),
	}).Info("Fiber 服务启动")

	return app.Listen(cfg.ListenAddr())
}
