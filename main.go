package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sync-desk/sync-desk/internal/apiconfig"
	"github.com/sync-desk/sync-desk/internal/cache"
	"github.com/sync-desk/sync-desk/internal/config"
	"github.com/sync-desk/sync-desk/internal/logging"
	"github.com/sync-desk/sync-desk/internal/server"
	"github.com/sync-desk/sync-desk/internal/server/routes"
	"github.com/sync-desk/sync-desk/internal/version"
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

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["data_path"] = cfg.Global.DataPath
		fields["cache_path"] = cfg.Global.CachePath
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	// 启动遵循“配置 → 磁盘缓存 → API 配置仓库 → Fiber server”顺序，
	// 保证所有命令共享同一套缓存与配置实例。
	store, err := cache.NewStore(cfg.Global.CachePath)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化缓存目录失败: %v\n", err)
		return 1
	}

	httpClient := cache.NewHTTPClient(cfg.Global.FetchTimeout.DurationValue())
	manager := cache.NewManager(store, cache.NewHTTPFetcher(httpClient), logger)

	apiStore, err := apiconfig.NewStore(cfg.Global.DataPath, logger)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化 API 配置仓库失败: %v\n", err)
		return 1
	}
	if err := apiStore.Load(); err != nil {
		logger.WithFields(logging.BaseFields("config_load", opts.configPath)).
			Warn(err.Error())
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["cache_path"] = cfg.Global.CachePath
	fields["device_id"] = apiconfig.DeviceID()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, manager, apiStore, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("sync-desk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./sync-desk.toml，可被 SYNC_DESK_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("SYNC_DESK_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "sync-desk.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, manager *cache.Manager, apiStore *apiconfig.Store, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Cache:      manager,
		APIConfig:  apiStore,
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterCommandRoutes(app, routes.Dependencies{
		Cache:     manager,
		APIConfig: apiStore,
	})

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	// 仅监听回环地址：命令通道只服务本机 GUI。
	return app.Listen(fmt.Sprintf("127.0.0.1:%d", port))
}
