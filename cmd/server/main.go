package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/xiebiao/novelsite/internal/infrastructure/config"
	"github.com/xiebiao/novelsite/internal/infrastructure/logger"
	"github.com/xiebiao/novelsite/pkg/metrics"
	"github.com/xiebiao/novelsite/pkg/tracing"
)

// @title        NovelSite API
// @version      1.0
// @description  多站点小说目录只读接口
// @BasePath     /api/v1

// main 主程序入口
// 说明：手动依赖注入；wire.go中的InitializeApp描述同一条依赖链
func main() {
	configPath := pflag.StringP("config", "c", "", "配置文件路径（默认 ./config/config.yaml）")
	pflag.Parse()

	// 1. 加载配置
	cfg, v, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("加载配置失败")
	}

	// 2. 日志
	log, err := logger.New(cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("初始化日志失败")
	}
	log.WithFields(logrus.Fields{
		"port":      cfg.Server.Port,
		"mode":      cfg.Server.Mode,
		"database":  cfg.Database.Host,
		"cache":     cfg.Cache.Backend,
		"site_name": cfg.Site.SiteName,
	}).Info("配置加载成功")

	// 3. 指标与链路追踪
	metrics.InitMetrics()
	shutdownTracer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	if err != nil {
		log.WithError(err).Fatal("初始化链路追踪失败")
	}

	// 4. 依赖注入（手动组装）
	// Store/Cache ← Reader ← UseCase ← Handler ← Engine
	db, closeDB, err := provideDB(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("初始化数据库失败")
	}
	caches, closeCache := provideCache(cfg, log)

	sites := provideSiteStore(cfg, v, log)
	store := provideStore(db, log)
	f := provideFetcher(cfg, log)
	reader := provideReader(sites, store, caches, provideKeyDeriver(cfg))
	enricher := provideEnricher(cfg, store, f, log)

	engine := provideEngine(cfg, log,
		provideCatalogHandler(reader, f, enricher),
		provideHealthHandler(db, caches),
	)
	app := newApp(provideHTTPServer(cfg, engine), enricher)

	// 5. 启动服务
	go func() {
		log.WithField("addr", app.Server.Addr).Info("服务启动成功")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("启动服务失败")
		}
	}()

	// 6. 优雅关闭
	// 顺序：停止接收请求 → 等待后台补全任务 → 关闭缓存和数据库 → 刷出Span
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("HTTP服务关闭超时")
	}
	app.Enricher.Wait()
	closeCache()
	closeDB()
	if err := shutdownTracer(ctx); err != nil {
		log.WithError(err).Warn("链路追踪关闭失败")
	}
	log.Info("服务已退出")
}
