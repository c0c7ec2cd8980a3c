//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 与main.go的手动组装是同一条依赖链：
//
//	Config → DB/Cache/Fetcher → Store → Reader → UseCase → Handler → Engine → App
//
// 生成代码：wire gen ./cmd/server

package main

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/xiebiao/novelsite/internal/infrastructure/config"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	provideDB,
	provideCache,
	provideKeyDeriver,
	provideSiteStore,
	provideFetcher,
	provideStore,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	provideReader,
	provideEnricher,
)

// interfaceSet 接口层依赖
var interfaceSet = wire.NewSet(
	provideCatalogHandler,
	provideHealthHandler,
	provideEngine,
	provideHTTPServer,
)

// InitializeApp 组装整个应用
// 返回的cleanup按创建的逆序关闭Redis和数据库连接
func InitializeApp(cfg *config.Config, v *viper.Viper, logger *logrus.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
