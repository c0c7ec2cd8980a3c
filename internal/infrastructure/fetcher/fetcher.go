// Package fetcher 出站HTTP抓取
//
// 设计说明:
// 1. 全局信号量限制并发连接数，超出时排队等待（受ctx控制）
// 2. 429/502/503/504 和网络错误按指数退避重试，其余状态码直接失败
// 3. 熔断器保护下游：连续失败后快速失败，不再占用信号量
// 4. 只允许 http/https
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/xiebiao/novelsite/internal/infrastructure/config"
	"github.com/xiebiao/novelsite/pkg/circuitbreaker"
	"github.com/xiebiao/novelsite/pkg/metrics"
)

// maxBodySize 响应体上限
const maxBodySize = 8 << 20

var (
	// ErrUnsupportedScheme 非http/https地址
	ErrUnsupportedScheme = errors.New("fetcher: only http and https are supported")
)

// StatusError 非2xx响应
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetcher: %s returned status %d", e.URL, e.StatusCode)
}

// Retryable 是否值得重试
func (e *StatusError) Retryable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetcher 带并发限制、重试和熔断的HTTP客户端，并发安全
type Fetcher struct {
	client  *http.Client
	sem     *semaphore.Weighted
	breaker *circuitbreaker.CircuitBreaker
	cfg     config.FetcherConfig
	logger  logrus.FieldLogger
}

// New 创建Fetcher
func New(cfg config.FetcherConfig, logger logrus.FieldLogger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 800
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 80 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 1500 * time.Millisecond
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	transport.MaxIdleConnsPerHost = 32

	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		sem: semaphore.NewWeighted(cfg.MaxConcurrent),
		breaker: circuitbreaker.NewCircuitBreaker("fetcher", circuitbreaker.Config{
			// 4xx说明下游正常，只是请求本身不对
			IsSuccessful: func(err error) bool {
				var se *StatusError
				if errors.As(err, &se) {
					return !se.Retryable() && se.StatusCode < 500
				}
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
		cfg:    cfg,
		logger: logger,
	}
}

// Get 抓取URL，返回响应体
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetcher: invalid url %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUnsupportedScheme
	}

	if err := f.sem.Acquire(ctx, 1); err != nil {
		metrics.IncCounterVec(metrics.FetchRequestsTotal, map[string]string{"result": "rejected"})
		return nil, err
	}
	defer f.sem.Release(1)

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		err := f.breaker.Execute(func() error {
			b, err := f.do(ctx, rawURL)
			body = b
			return err
		})
		return classify(err)
	}

	notify := func(err error, wait time.Duration) {
		metrics.IncCounterVec(metrics.FetchRequestsTotal, map[string]string{"result": "retry"})
		f.logger.WithError(err).WithFields(logrus.Fields{
			"url":     rawURL,
			"attempt": attempt,
			"wait":    wait,
		}).Debug("抓取失败，稍后重试")
	}

	if err := backoff.RetryNotify(op, f.newBackOff(ctx), notify); err != nil {
		metrics.IncCounterVec(metrics.FetchRequestsTotal, map[string]string{"result": "failure"})
		return nil, err
	}
	metrics.IncCounterVec(metrics.FetchRequestsTotal, map[string]string{"result": "success"})
	return body, nil
}

func (f *Fetcher) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.cfg.BaseDelay
	b.MaxInterval = f.cfg.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(f.cfg.MaxRetries)), ctx)
}

func (f *Fetcher) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

// classify 决定是否重试：熔断、ctx结束、不可重试的状态码都是永久失败
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, circuitbreaker.ErrOpenState) || errors.Is(err, circuitbreaker.ErrTooManyRequests) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return backoff.Permanent(err)
	}
	var se *StatusError
	if errors.As(err, &se) && !se.Retryable() {
		return backoff.Permanent(err)
	}
	return err
}
