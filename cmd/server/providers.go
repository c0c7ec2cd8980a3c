package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/xiebiao/novelsite/internal/application/catalog"
	"github.com/xiebiao/novelsite/internal/application/langtail"
	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/internal/infrastructure/cache"
	"github.com/xiebiao/novelsite/internal/infrastructure/config"
	"github.com/xiebiao/novelsite/internal/infrastructure/fetcher"
	"github.com/xiebiao/novelsite/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/novelsite/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/novelsite/internal/infrastructure/txtsource"
	"github.com/xiebiao/novelsite/internal/interface/http/handler"
	"github.com/xiebiao/novelsite/internal/interface/http/router"
)

// App 组装完成的服务
type App struct {
	Server   *http.Server
	Enricher *langtail.Enricher
}

// ========================================
// 基础设施
// ========================================

// provideDB 创建MySQL连接，cleanup关闭连接池
func provideDB(cfg *config.Config, logger *logrus.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg.Database, cfg.Server.Mode, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// cacheDeps 缓存及其（可选的）Redis连接
type cacheDeps struct {
	cache *cache.Cache
	redis *goredis.Client // 后端不是redis或连接失败时为nil
}

// provideCache 按配置选择缓存后端
// Redis连接失败不阻止启动，降级为直通模式（每次回源）
func provideCache(cfg *config.Config, logger *logrus.Logger) (cacheDeps, func()) {
	opts := []cache.Option{cache.WithLogger(logger)}
	noop := func() {}

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		client, err := redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.WithError(err).Warn("Redis不可用，缓存降级为直通模式")
			return cacheDeps{cache: cache.New(nil, opts...)}, noop
		}
		return cacheDeps{cache: cache.New(redis.NewBackend(client), opts...), redis: client},
			func() { _ = client.Close() }
	case config.CacheBackendMemory:
		backend := cache.NewMemoryBackend(cfg.Cache.MemorySize, cfg.Cache.MemoryMaxTTL)
		return cacheDeps{cache: cache.New(backend, opts...)}, noop
	default:
		logger.Info("未启用缓存，所有查询直接回源")
		return cacheDeps{cache: cache.New(nil, opts...)}, noop
	}
}

func provideKeyDeriver(cfg *config.Config) cache.KeyDeriver {
	return cache.NewKeyDeriver(cfg.Cache.Namespace)
}

// provideSiteStore 发布初始站点配置，并监听配置文件热重载
func provideSiteStore(cfg *config.Config, v *viper.Viper, logger *logrus.Logger) *site.Store {
	store := site.NewStore(&cfg.Site)
	if v != nil && v.ConfigFileUsed() != "" {
		config.WatchSite(v, store, logger)
	}
	return store
}

func provideFetcher(cfg *config.Config, logger *logrus.Logger) *fetcher.Fetcher {
	return fetcher.New(cfg.Fetcher, logger)
}

// ========================================
// 应用层
// ========================================

func provideStore(db *gorm.DB, logger *logrus.Logger) novel.Store {
	return mysql.NewStore(db, logger)
}

func provideReader(sites *site.Store, store novel.Store, deps cacheDeps, keys cache.KeyDeriver) *catalog.Reader {
	return catalog.NewReader(sites, store, deps.cache, keys)
}

func provideEnricher(cfg *config.Config, store novel.Store, f *fetcher.Fetcher, logger *logrus.Logger) *langtail.Enricher {
	return langtail.NewEnricher(store, f, langtail.DefaultEngines, langtail.Config{
		Workers:   cfg.Enrich.Workers,
		Freshness: cfg.Enrich.Freshness,
		Timeout:   cfg.Enrich.Timeout,
	}, logger)
}

// provideCatalogHandler 创建全部目录用例并组装Handler
func provideCatalogHandler(reader *catalog.Reader, f *fetcher.Fetcher, enricher *langtail.Enricher) *handler.CatalogHandler {
	return handler.NewCatalogHandler(handler.CatalogUseCases{
		GetInfo:      catalog.NewGetInfoUseCase(reader, enricher),
		IndexList:    catalog.NewIndexListUseCase(reader),
		ReadChapter:  catalog.NewReadChapterUseCase(reader, txtsource.New(f)),
		ListCategory: catalog.NewListCategoryUseCase(reader),
		Rank:         catalog.NewRankUseCase(reader),
		ByAuthor:     catalog.NewByAuthorUseCase(reader),
		Search:       catalog.NewSearchUseCase(reader),
		GetLangTail:  catalog.NewGetLangTailUseCase(reader),
	})
}

// provideHealthHandler 就绪检查覆盖MySQL，以及启用时的Redis
func provideHealthHandler(db *gorm.DB, deps cacheDeps) *handler.HealthHandler {
	checks := map[string]handler.HealthCheck{
		"mysql": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if deps.redis != nil {
		client := deps.redis
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}
	return handler.NewHealthHandler(checks)
}

// ========================================
// 接口层
// ========================================

// provideEngine 设置运行模式并注册路由
func provideEngine(cfg *config.Config, logger *logrus.Logger, catalogHandler *handler.CatalogHandler, healthHandler *handler.HealthHandler) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	return router.New(logger, catalogHandler, healthHandler,
		router.WithSwagger(cfg.Server.Mode != gin.ReleaseMode),
	)
}

func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

func newApp(server *http.Server, enricher *langtail.Enricher) *App {
	return &App{Server: server, Enricher: enricher}
}
