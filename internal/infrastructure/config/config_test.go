package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/novelsite/internal/domain/site"
)

const minimalYAML = `
server:
  port: 8081
cache:
  backend: memory
site:
  site_name: 测试站
  prefix: jieqi_
  is_multiple: true
  confusion_algorithm: "+"
  confusion_value: 1000
  sort_arr:
    - { code: xuanhuan, caption: 玄幻奇幻 }
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("文件值与默认值合并", func(t *testing.T) {
		cfg, v, err := Load(writeConfig(t, minimalYAML))
		require.NoError(t, err)
		require.NotNil(t, v)

		assert.Equal(t, 8081, cfg.Server.Port)
		assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
		assert.Equal(t, "novel", cfg.Cache.Namespace)
		assert.Equal(t, 30*time.Second, cfg.Fetcher.Timeout)
		assert.Equal(t, int64(800), cfg.Fetcher.MaxConcurrent)
		assert.Equal(t, 80*time.Millisecond, cfg.Fetcher.BaseDelay)
		assert.Equal(t, 7*24*time.Hour, cfg.Enrich.Freshness)

		assert.Equal(t, "测试站", cfg.Site.SiteName)
		assert.Equal(t, 20, cfg.Site.CategoryPerPage)
		assert.Equal(t, 600, cfg.Site.Cache.Info)
		assert.Equal(t, "其它类型", cfg.Site.FallbackSortName)
		require.Len(t, cfg.Site.SortArr, 1)
		assert.Equal(t, "xuanhuan", cfg.Site.SortArr[0].Code)
		assert.Equal(t, uint64(2000), cfg.Site.Identity().ToPublic(1000))
	})

	t.Run("环境变量覆盖", func(t *testing.T) {
		t.Setenv("NOVELSITE_SERVER_PORT", "9090")
		t.Setenv("NOVELSITE_DATABASE_PASSWORD", "secret")
		cfg, _, err := Load(writeConfig(t, minimalYAML))
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "secret", cfg.Database.Password)
	})

	t.Run("文件不存在", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("无效缓存后端", func(t *testing.T) {
		_, _, err := Load(writeConfig(t, "cache:\n  backend: memcached\n"))
		assert.ErrorContains(t, err, "缓存后端")
	})

	t.Run("无效的表前缀", func(t *testing.T) {
		_, _, err := Load(writeConfig(t, "site:\n  prefix: \"x; DROP TABLE\"\n"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		User: "root", Password: "pw", Host: "db", Port: 3306,
		DBName: "jieqi", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t, "root:pw@tcp(db:3306)/jieqi?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai", d.DSN())
}

func TestSiteReloader(t *testing.T) {
	path := writeConfig(t, minimalYAML)
	cfg, v, err := Load(path)
	require.NoError(t, err)

	store := site.NewStore(&cfg.Site)
	logger, hook := test.NewNullLogger()
	reload := siteReloader(v, store, logger)

	t.Run("合法配置发布新快照", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte(minimalYAML+"  is_lang: true\n"), 0o644))
		require.NoError(t, v.ReadInConfig())
		old := store.Current()

		reload(fsnotify.Event{Name: path, Op: fsnotify.Write})

		assert.NotSame(t, old, store.Current())
		assert.True(t, store.Current().IsLang)
		assert.False(t, old.IsLang, "旧快照不被修改")
	})

	t.Run("非法配置保留旧快照", func(t *testing.T) {
		before := store.Current()
		require.NoError(t, os.WriteFile(path, []byte("site:\n  category_per_page: -1\n"), 0o644))
		require.NoError(t, v.ReadInConfig())

		reload(fsnotify.Event{Name: path, Op: fsnotify.Write})

		assert.Same(t, before, store.Current())
		require.NotNil(t, hook.LastEntry())
		assert.Contains(t, hook.LastEntry().Message, "配置重载失败")
	})
}
