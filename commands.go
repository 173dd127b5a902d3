package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"verwatch/internal/adapter"
	"verwatch/internal/app"
	"verwatch/internal/config"
	"verwatch/internal/descriptor"
	"verwatch/internal/model"
	"verwatch/internal/monitor"
	"verwatch/internal/storage"
	"verwatch/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

// runGenerate 构建完成后写出版本描述文件
// 默认与构建插件行为一致（失败只记日志）；--strict 时失败返回非零退出码
func runGenerate(cfg *config.EnvConfig, args []string) error {
	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	out := fs.StringP("out", "o", cfg.OutputDir, "输出目录（默认 ./dist）")
	metadata := fs.StringP("metadata", "m", cfg.MetadataPath, "项目元数据文件（package.json / *.yaml）")
	filename := fs.String("filename", cfg.Filename, "描述文件名")
	debug := fs.Bool("debug", cfg.Debug, "打印完整描述内容")
	strict := fs.Bool("strict", false, "生成失败时返回错误")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := descriptor.Options{
		Filename:     *filename,
		Debug:        *debug,
		MetadataPath: *metadata,
	}
	stats := &descriptor.BuildStats{OutputPath: *out}
	ctx := context.Background()

	if !*strict {
		descriptor.NewHost(descriptor.NewPlugin(opts)).RunAfterBuild(ctx, stats)
		return nil
	}

	res, err := descriptor.NewWriter(opts).Generate(ctx, stats)
	if err != nil {
		return err
	}
	log.Printf("✓ Generated %s: v%s", res.Path, res.Descriptor.Version)
	return nil
}

// monitorFlags watch/check/serve 共用的检测参数
type monitorFlags struct {
	baseURL  *string
	url      *string
	key      *string
	interval *time.Duration
	delay    *time.Duration
}

func bindMonitorFlags(fs *pflag.FlagSet, cfg *config.EnvConfig, schedule bool) *monitorFlags {
	f := &monitorFlags{
		baseURL: fs.String("base-url", cfg.BaseURL, "相对版本URL的解析基址"),
		url:     fs.StringP("url", "u", cfg.VersionURL, "版本描述URL"),
		key:     fs.StringP("key", "k", cfg.StorageKey, "存储版本的键"),
	}
	if schedule {
		f.interval = fs.Duration("interval", cfg.CheckInterval, "周期检测间隔")
		f.delay = fs.Duration("delay", cfg.InitialDelay, "首次检测延迟（负值立即检测）")
	}
	return f
}

func (f *monitorFlags) options() monitor.Options {
	opts := monitor.Options{
		VersionURL: *f.url,
		StorageKey: *f.key,
	}
	if f.interval != nil {
		opts.CheckInterval = *f.interval
	}
	if f.delay != nil {
		opts.InitialDelay = *f.delay
	}
	return opts.WithDefaults()
}

// openMonitor 按配置创建存储与监控器，返回的 cleanup 负责关闭存储
func openMonitor(cfg *config.EnvConfig, baseURL string, extra ...monitor.Option) (*monitor.Monitor, func(), error) {
	store, err := storage.NewStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			log.Printf("[WARN] 关闭存储失败: %v", err)
		}
	}

	opts := append([]monitor.Option{monitor.WithBaseURL(baseURL)}, extra...)
	return monitor.New(store, opts...), cleanup, nil
}

// runWatch 前台周期检测，发现新版本时清理缓存并执行刷新命令
func runWatch(cfg *config.EnvConfig, args []string) error {
	fs := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	mf := bindMonitorFlags(fs, cfg, true)
	cacheDir := fs.String("cache-dir", cfg.CacheDir, "强制刷新时清空的缓存目录")
	reloadCmd := fs.String("reload-cmd", "", "发现新版本后执行的刷新命令")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var extra []monitor.Option
	if *cacheDir != "" {
		extra = append(extra, monitor.WithCacheStorage(storage.NewDirCache(*cacheDir)))
	}
	reloader := parseReloadCommand(*reloadCmd)
	if reloader != nil {
		extra = append(extra, monitor.WithReloader(*reloader))
	}

	mon, cleanup, err := openMonitor(cfg, *mf.baseURL, extra...)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := mf.options()
	updates := make(chan model.UpdateInfo, 1)
	opts.OnUpdateAvailable = func(info model.UpdateInfo) {
		select {
		case updates <- info:
		default:
		}
	}

	mon.InitializeVersion(ctx, opts.CheckOptions())
	cancel := mon.InitVersionCheck(ctx, opts)
	defer cancel()

	log.Printf("[VersionCheck] 开始检测 %s（间隔 %v，首次延迟 %v）",
		util.RedactURL(opts.VersionURL), opts.CheckInterval, opts.InitialDelay)

	for {
		select {
		case <-ctx.Done():
			log.Print("[VersionCheck] 已停止")
			return nil
		case info := <-updates:
			log.Printf("[VersionCheck] 发现新版本: %s -> %s (构建于 %s)",
				displayVersion(info.CurrentVersion), info.LatestVersion, info.BuildTime)
			if reloader == nil && *cacheDir == "" {
				continue
			}
			if err := mon.ForceReload(ctx); err != nil {
				log.Printf("[VersionCheck] 刷新失败: %v", err)
				continue
			}
			// 刷新成功视为已确认新版本
			if err := mon.SetCurrentVersion(ctx, info.LatestVersion, opts.StorageKey); err != nil {
				log.Printf("[WARN] 记录新版本失败: %v", err)
			}
		}
	}
}

func parseReloadCommand(raw string) *monitor.CommandReloader {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	return &monitor.CommandReloader{Name: fields[0], Args: fields[1:]}
}

// runCheck 执行一次检测并输出结果
func runCheck(cfg *config.EnvConfig, args []string, stdout io.Writer) error {
	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	mf := bindMonitorFlags(fs, cfg, false)
	asJSON := fs.Bool("json", false, "以JSON输出")
	initialize := fs.Bool("init", false, "检测前先初始化存储版本")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mon, cleanup, err := openMonitor(cfg, *mf.baseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), config.HTTPRequestTimeout)
	defer cancel()

	opts := mf.options().CheckOptions()
	loader := startSpinner(fmt.Sprintf(" Checking %s...", util.RedactURL(opts.URL)), !*asJSON)
	if *initialize {
		mon.InitializeVersion(ctx, opts)
	}
	result, err := mon.CheckForUpdates(ctx, opts)
	loader.Stop()
	if err != nil {
		return err
	}

	if *asJSON {
		data, err := util.MarshalIndentJSON(result, "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	renderCheckResult(stdout, opts, result)
	return nil
}

// runServe 托管构建产物，并在同一进程中运行版本监控
func runServe(cfg *config.EnvConfig, args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	mf := bindMonitorFlags(fs, cfg, true)
	dir := fs.StringP("dir", "d", cfg.WebDir, "构建产物目录")
	port := fs.StringP("port", "p", cfg.Port, "监听地址")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr := *port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	// 未显式指定时检测自身托管的描述文件
	baseURL := *mf.baseURL
	if baseURL == "" {
		baseURL = localBaseURL(addr)
	}
	if !fs.Changed("url") && *mf.url == config.DefaultVersionURL {
		*mf.url = "/web/" + cfg.Filename
	}

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	mon, cleanup, err := openMonitor(cfg, baseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := app.NewServer(app.Config{
		WebDir:         *dir,
		DescriptorFile: cfg.Filename,
		Monitor:        mon,
		Plugin:         adapter.Options{Options: mf.options()},
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(addr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// localBaseURL 由监听地址推导本机访问地址
func localBaseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://127.0.0.1" + addr
	}
	return "http://" + addr
}
