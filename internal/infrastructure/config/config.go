package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xiebiao/novelsite/internal/domain/site"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖、site段热重载
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Enrich   EnrichConfig   `mapstructure:"enrich"`
	Site     site.Config    `mapstructure:"site"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // text | json
	Output string `mapstructure:"output"` // stdout | stderr | /path/to/file
}

type TracingConfig struct {
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"` // 为空时不导出
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// FetcherConfig 出站HTTP请求（远程章节文本、搜索联想）
type FetcherConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
	MaxConcurrent int64         `mapstructure:"max_concurrent"`
	MaxRetries    int           `mapstructure:"max_retries"`
	BaseDelay     time.Duration `mapstructure:"base_delay"`
	MaxDelay      time.Duration `mapstructure:"max_delay"`
	UserAgent     string        `mapstructure:"user_agent"`
}

// 缓存后端
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
	CacheBackendNone   = "none"
)

type CacheConfig struct {
	Backend      string        `mapstructure:"backend"` // redis | memory | none
	Namespace    string        `mapstructure:"namespace"`
	MemorySize   int           `mapstructure:"memory_size"`
	MemoryMaxTTL time.Duration `mapstructure:"memory_max_ttl"`
}

// EnrichConfig 长尾词补全后台任务
type EnrichConfig struct {
	Workers   int           `mapstructure:"workers"`
	Freshness time.Duration `mapstructure:"freshness"` // 距上次更新不足该时长时跳过
	Timeout   time.Duration `mapstructure:"timeout"`   // 单次任务超时
}

// Load 加载配置文件
// 支持：
// 1. path为空时加载config/config.yaml
// 2. 通过环境变量NOVELSITE_ENV指定环境（如config.prod.yaml）
// 3. 环境变量覆盖（如NOVELSITE_DATABASE_PASSWORD）
//
// 返回的viper实例供WatchSite热重载使用
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		if env := os.Getenv("NOVELSITE_ENV"); env != "" {
			v.SetConfigName("config." + env)
		}
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 环境变量绑定（NOVELSITE_DATABASE_PASSWORD → database.password）
	// 注意：只有设置过默认值或出现在文件中的key才会被环境变量覆盖
	v.SetEnvPrefix("NOVELSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "jieqi")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.dial_timeout", 2*time.Second)
	v.SetDefault("redis.read_timeout", time.Second)
	v.SetDefault("redis.write_timeout", time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("tracing.service_name", "novelsite")
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.sample_ratio", 0.1)

	v.SetDefault("fetcher.timeout", 30*time.Second)
	v.SetDefault("fetcher.dial_timeout", 5*time.Second)
	v.SetDefault("fetcher.max_concurrent", 800)
	v.SetDefault("fetcher.max_retries", 2)
	v.SetDefault("fetcher.base_delay", 80*time.Millisecond)
	v.SetDefault("fetcher.max_delay", 1500*time.Millisecond)
	v.SetDefault("fetcher.user_agent", "Mozilla/5.0 (compatible; novelsite/1.0)")

	v.SetDefault("cache.backend", CacheBackendRedis)
	v.SetDefault("cache.namespace", "novel")
	v.SetDefault("cache.memory_size", 10000)
	v.SetDefault("cache.memory_max_ttl", 24*time.Hour)

	v.SetDefault("enrich.workers", 4)
	v.SetDefault("enrich.freshness", 7*24*time.Hour)
	v.SetDefault("enrich.timeout", 2*time.Minute)

	v.SetDefault("site.site_name", "小说站")
	v.SetDefault("site.sys_ver", 5.0)
	v.SetDefault("site.prefix", "jieqi_")
	v.SetDefault("site.category_per_page", 20)
	v.SetDefault("site.index_list_num", 100)
	v.SetDefault("site.read_page_split_mode", site.SplitNone)
	v.SetDefault("site.read_page_split_lines", 20)
	v.SetDefault("site.fallback_sort_name", "其它类型")
	v.SetDefault("site.confusion_algorithm", "xor")
	v.SetDefault("site.cache.home", 600)
	v.SetDefault("site.cache.info", 600)
	v.SetDefault("site.cache.chapter", 3600)
	v.SetDefault("site.cache.sort", 600)
	v.SetDefault("site.cache.rank", 3600)
	v.SetDefault("site.cache.other", 600)
	v.SetDefault("site.search.limit", 30)
	v.SetDefault("site.search.min", 2)
	v.SetDefault("site.search.time", 600)
	v.SetDefault("site.search.delay", 0)
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	switch cfg.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory, CacheBackendNone:
	default:
		return fmt.Errorf("无效的缓存后端: %q", cfg.Cache.Backend)
	}

	if cfg.Fetcher.MaxConcurrent <= 0 {
		return fmt.Errorf("fetcher.max_concurrent 必须大于0")
	}

	if cfg.Enrich.Workers <= 0 {
		return fmt.Errorf("enrich.workers 必须大于0")
	}

	return cfg.Site.Validate()
}
