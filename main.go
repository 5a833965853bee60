package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/filecache/internal/cache"
	"github.com/any-hub/filecache/internal/config"
	"github.com/any-hub/filecache/internal/logging"
	"github.com/any-hub/filecache/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
	command     string
	args        []string
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	// .env 不存在是常态，忽略错误。
	_ = godotenv.Load()

	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行命令，并返回退出码，方便测试。
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
		fields["cache"] = cfg.Cache.Summary()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	if opts.command == "" {
		fmt.Fprintln(stdErr, usage)
		return 2
	}

	var (
		registry *prometheus.Registry
		metrics  *cache.Metrics
	)
	if cfg.Global.MetricsEnabled {
		registry = prometheus.NewRegistry()
		if metrics, err = cache.NewMetrics(registry); err != nil {
			fmt.Fprintf(stdErr, "初始化指标失败: %v\n", err)
			return 1
		}
	}

	fields := logging.BaseFields(opts.command, opts.configPath)
	fields["cache"] = cfg.Cache.Summary()
	fields["version"] = version.Full()
	logger.WithFields(fields).Debug("执行缓存命令")

	code := execute(context.Background(), cfg, logger, metrics, opts)
	if registry != nil {
		reportMetrics(logger, registry)
	}
	return code
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
// 标志之后的第一个参数是命令，其余为命令参数。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("filecache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（可被 FILECACHE_CONFIG 覆盖，留空则只使用默认值与环境变量）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("FILECACHE_CONFIG")
	if configFlag != "" {
		path = configFlag
	}

	opts := cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}
	if rest := fs.Args(); len(rest) > 0 {
		opts.command = rest[0]
		opts.args = rest[1:]
	}
	return opts, nil
}

func cacheOptions(cfg *config.Config, logger *logrus.Logger, metrics *cache.Metrics) (cache.Options, error) {
	hash, err := cache.ParseHashAlgorithm(cfg.Cache.HashAlgorithm)
	if err != nil {
		return cache.Options{}, err
	}
	return cache.Options{
		Directory:  cfg.Cache.Directory,
		DefaultTTL: cfg.Cache.DefaultTTL.DurationValue(),
		Hash:       hash,
		Compress:   cfg.Cache.Compress,
		Logger:     logger,
		Metrics:    metrics,
	}, nil
}

// reportMetrics 在命令结束后把计数器写入日志，CLI 没有常驻的 /metrics 端点。
func reportMetrics(logger *logrus.Logger, registry *prometheus.Registry) {
	families, err := registry.Gather()
	if err != nil {
		logger.WithError(err).Warn("收集指标失败")
		return
	}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			fields := logrus.Fields{
				"action": "metrics",
				"metric": family.GetName(),
				"value":  metric.GetCounter().GetValue(),
			}
			for _, label := range metric.GetLabel() {
				fields[label.GetName()] = label.GetValue()
			}
			logger.WithFields(fields).Info("cache metric")
		}
	}
}
