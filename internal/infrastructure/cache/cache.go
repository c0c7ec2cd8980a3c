// Package cache 读穿缓存（cache-aside）
//
// 设计说明:
// 1. 先查缓存，命中直接返回；未命中调用loader回源，非空结果写回缓存
// 2. 缓存后端不可用或未配置时进入直通模式，系统照常工作
// 3. 载荷解码失败按未命中处理；loader失败原样返回且不缓存
// 4. 空结果不缓存，避免把短暂的"不存在"状态缓存下来
// 5. 不做并发去重（single-flight）：同一key的并发未命中会各自回源
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/novelsite/pkg/circuitbreaker"
	"github.com/xiebiao/novelsite/pkg/metrics"
	"github.com/xiebiao/novelsite/pkg/tracing"
)

const tracerName = "novelsite/cache"

// Backend 带TTL的键值存储（外部协作者）
type Backend interface {
	// Get 读取原始载荷，不存在时found为false且err为nil
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// SetWithTTL 写入载荷
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Emptier 自定义"空结果"判定
type Emptier interface {
	IsEmpty() bool
}

// Cache 读穿缓存
//
// 零值不可用，使用New创建；nil *Cache 等价于直通模式
type Cache struct {
	backend Backend
	breaker *circuitbreaker.CircuitBreaker
	logger  logrus.FieldLogger
}

// Option 配置项
type Option func(*Cache)

// WithLogger 指定日志
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Cache) { c.logger = logger }
}

// WithBreaker 指定后端熔断器，传nil表示不使用熔断
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(c *Cache) { c.breaker = cb }
}

// New 创建读穿缓存，backend为nil时为直通模式
func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		logger:  logrus.StandardLogger(),
	}
	if backend != nil {
		c.breaker = circuitbreaker.NewCircuitBreaker("cache-backend", circuitbreaker.Config{
			Timeout: 10 * time.Second,
			// 调用方取消不代表后端故障
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled 是否配置了缓存后端
func (c *Cache) Enabled() bool {
	return c != nil && c.backend != nil
}

// GetOrLoad 读穿缓存
//
// 每次调用最多一次缓存读、一次缓存写、一次loader调用。
// 只有loader的错误会返回给调用方。
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "cache.GetOrLoad")
	defer span.End()

	kind := kindOf(key)
	span.SetAttributes(attribute.String("cache.key", key), attribute.String("cache.kind", kind))

	if c.Enabled() {
		if v, ok := lookup[T](ctx, c, key, kind); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return v, nil
		}
	} else {
		metrics.ObserveCache(kind, metrics.CacheBypass)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	start := time.Now()
	v, err := load(ctx)
	metrics.ObserveCacheLoad(kind, time.Since(start).Seconds())
	if err != nil {
		tracing.RecordError(span, err)
		var zero T
		return zero, err
	}

	if c.Enabled() && !isEmpty(v) {
		c.store(ctx, key, kind, v, ttl)
	}
	return v, nil
}

func lookup[T any](ctx context.Context, c *Cache, key, kind string) (T, bool) {
	var v T
	raw, found, err := c.get(ctx, key)
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		metrics.ObserveCache(kind, metrics.CacheBypass)
		return v, false
	case err != nil:
		metrics.ObserveCache(kind, metrics.CacheError)
		c.logger.WithError(err).WithField("key", key).Warn("缓存读取失败，直接回源")
		return v, false
	case !found:
		metrics.ObserveCache(kind, metrics.CacheMiss)
		return v, false
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		metrics.ObserveCache(kind, metrics.CacheDecode)
		c.logger.WithError(err).WithField("key", key).Debug("缓存载荷解码失败，按未命中处理")
		var zero T
		return zero, false
	}
	metrics.ObserveCache(kind, metrics.CacheHit)
	return v, true
}

func (c *Cache) store(ctx context.Context, key, kind string, v any, ttl time.Duration) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("缓存载荷编码失败")
		return
	}
	err = c.call(func() error { return c.backend.SetWithTTL(ctx, key, payload, ttl) })
	if err != nil && !errors.Is(err, circuitbreaker.ErrOpenState) && !errors.Is(err, circuitbreaker.ErrTooManyRequests) {
		metrics.ObserveCache(kind, metrics.CacheError)
		c.logger.WithError(err).WithField("key", key).Warn("缓存写入失败")
	}
}

func (c *Cache) get(ctx context.Context, key string) (raw []byte, found bool, err error) {
	err = c.call(func() error {
		var e error
		raw, found, e = c.backend.Get(ctx, key)
		return e
	})
	return raw, found, err
}

func (c *Cache) call(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.Execute(fn)
}

// kindOf 从 {namespace}:{kind}:{hash} 中取出kind，用作指标标签
func kindOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return "unknown"
	}
	return parts[1]
}

// isEmpty 切片/映射/字符串长度为0、nil指针视为空；标量（如计数）永远不为空
func isEmpty(v any) bool {
	if e, ok := v.(Emptier); ok {
		return e.IsEmpty()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
