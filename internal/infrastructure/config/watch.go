package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/xiebiao/novelsite/internal/domain/site"
)

// WatchSite 监听配置文件变化，重新解析并发布site配置快照
//
// 只有site段会热更新；其余段（端口、数据库等）需要重启才生效。
// 新配置校验失败时记录日志，继续使用旧快照。
func WatchSite(v *viper.Viper, store *site.Store, logger logrus.FieldLogger) {
	v.OnConfigChange(siteReloader(v, store, logger))
	v.WatchConfig()
}

func siteReloader(v *viper.Viper, store *site.Store, logger logrus.FieldLogger) func(fsnotify.Event) {
	return func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			logger.WithError(err).WithField("file", e.Name).Warn("配置重载失败，继续使用旧配置")
			return
		}
		store.Publish(&cfg.Site)
		logger.WithFields(logrus.Fields{
			"file":      e.Name,
			"site_name": cfg.Site.SiteName,
		}).Info("站点配置已重载")
	}
}
