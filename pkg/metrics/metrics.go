// Package metrics 基于Prometheus的指标收集
//
// 指标分组：
//   - HTTP：请求总数、耗时、并发数
//   - 读穿缓存：按资源类型统计命中/未命中/直通/后端错误，回源耗时
//   - 内容存储：查询失败次数
//   - 长尾词生成：后台任务结果
//   - 外部抓取：请求结果
//   - 熔断器：状态与请求结果
//
// 使用方式：
//
//	func main() {
//	    metrics.InitMetrics()
//	    router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//	}
//
// 未调用InitMetrics时，所有辅助函数都是空操作（便于单元测试）。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "novelsite"

// 缓存结果标签
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass" // 后端不可用或未配置，直接回源
	CacheError  = "error"  // 后端读写失败
	CacheDecode = "decode" // 载荷无法解码，按未命中处理
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// 缓存指标

	// CacheRequestsTotal 读穿缓存请求数
	// 标签：kind（rows/count/chapters/langtail/langtail-rows）、result
	CacheRequestsTotal *prometheus.CounterVec

	// CacheLoadDuration 未命中时回源加载耗时
	CacheLoadDuration *prometheus.HistogramVec

	// StoreQueryErrorsTotal 内容存储查询失败次数
	StoreQueryErrorsTotal prometheus.Counter

	// 后台任务与外部抓取

	// EnrichmentRunsTotal 长尾词生成任务数
	// 标签：result（success/skipped/deduplicated/empty/failure）
	EnrichmentRunsTotal *prometheus.CounterVec

	// FetchRequestsTotal 外部抓取请求数
	// 标签：result（success/retry/failure/rejected）
	FetchRequestsTotal *prometheus.CounterVec

	// 熔断器指标

	// CircuitBreakerState 熔断器状态 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// CircuitBreakerRequests 熔断器请求数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry，重复调用无副作用
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求耗时（秒）",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_progress",
			Help:      "正在处理的HTTP请求数",
		},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "读穿缓存请求数",
		},
		[]string{"kind", "result"},
	)

	CacheLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_load_duration_seconds",
			Help:      "缓存未命中时回源耗时（秒）",
			// 回源是数据库查询，通常在毫秒级
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"kind"},
	)

	StoreQueryErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_query_errors_total",
			Help:      "内容存储查询失败次数",
		},
	)

	EnrichmentRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_runs_total",
			Help:      "长尾词生成任务数",
		},
		[]string{"result"},
	)

	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "外部抓取请求数",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "熔断器请求总数",
		},
		[]string{"name", "result"},
	)
}

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGaugeVec 设置带标签的Gauge
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}

// ObserveCache 记录一次缓存访问结果
func ObserveCache(kind, result string) {
	IncCounterVec(CacheRequestsTotal, map[string]string{"kind": kind, "result": result})
}

// ObserveCacheLoad 记录一次回源耗时
func ObserveCacheLoad(kind string, seconds float64) {
	ObserveHistogramVec(CacheLoadDuration, map[string]string{"kind": kind}, seconds)
}
