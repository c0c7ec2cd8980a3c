package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/novelsite/docs"
	"github.com/xiebiao/novelsite/internal/interface/http/handler"
	"github.com/xiebiao/novelsite/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/novelsite/pkg/errors"
	"github.com/xiebiao/novelsite/pkg/response"
)

// Option 路由可选项
type Option func(*options)

type options struct {
	swagger bool
}

// WithSwagger 注册 /swagger/*any 文档页，生产环境建议关闭
func WithSwagger(enabled bool) Option {
	return func(o *options) { o.swagger = enabled }
}

// New 创建Gin引擎并注册全部路由
//
// 中间件顺序：
//
//	Recovery → Tracing → Logger → Metrics → ResolveHost → Handler
//
// Logger放在Recovery之后，panic转成500后仍能记到日志里；放在Tracing之后才能取到trace_id
func New(logger logrus.FieldLogger, catalog *handler.CatalogHandler, health *handler.HealthHandler, opts ...Option) *gin.Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Tracing())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.ResolveHost())

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	// 运维接口
	r.GET("/ping", health.Ping)
	r.GET("/healthz", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if o.swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.GET("/:id", catalog.GetInfo)
			books.GET("/:id/chapters", catalog.IndexList)
			books.GET("/:id/chapters/:cid", catalog.ReadChapter)
		}

		v1.GET("/sorts/:sort", catalog.ListCategory)
		v1.GET("/ranks/:code", catalog.Rank)
		v1.GET("/authors/:name", catalog.ByAuthor)
		v1.GET("/search", catalog.Search)
		v1.GET("/langs/:id", catalog.GetLangTail)
	}

	return r
}
