package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/novelsite/internal/infrastructure/config"
	"github.com/xiebiao/novelsite/pkg/circuitbreaker"
)

func newTestFetcher(maxConcurrent int64) *Fetcher {
	logger, _ := test.NewNullLogger()
	return New(config.FetcherConfig{
		Timeout:       2 * time.Second,
		MaxConcurrent: maxConcurrent,
		MaxRetries:    2,
		BaseDelay:     time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		UserAgent:     "novelsite-test",
	}, logger)
}

// sequenceServer 依次返回给定的状态码，用完后一直返回最后一个
func sequenceServer(t *testing.T, codes ...int) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&hits, 1)) - 1
		if n >= len(codes) {
			n = len(codes) - 1
		}
		w.WriteHeader(codes[n])
		if codes[n] == http.StatusOK {
			_, _ = w.Write([]byte("ok:" + r.UserAgent()))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetcher_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("成功", func(t *testing.T) {
		srv, hits := sequenceServer(t, http.StatusOK)
		body, err := newTestFetcher(10).Get(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "ok:novelsite-test", string(body))
		assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	})

	t.Run("503后重试成功", func(t *testing.T) {
		srv, hits := sequenceServer(t, http.StatusServiceUnavailable, http.StatusTooManyRequests, http.StatusOK)
		body, err := newTestFetcher(10).Get(ctx, srv.URL)
		require.NoError(t, err)
		assert.Contains(t, string(body), "ok:")
		assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	})

	t.Run("重试次数用尽", func(t *testing.T) {
		srv, hits := sequenceServer(t, http.StatusBadGateway)
		_, err := newTestFetcher(10).Get(ctx, srv.URL)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadGateway, se.StatusCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(hits), "首次请求 + 2次重试")
	})

	t.Run("404不重试", func(t *testing.T) {
		srv, hits := sequenceServer(t, http.StatusNotFound)
		_, err := newTestFetcher(10).Get(ctx, srv.URL)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.False(t, se.Retryable())
		assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	})

	t.Run("只允许http和https", func(t *testing.T) {
		f := newTestFetcher(10)
		_, err := f.Get(ctx, "file:///etc/passwd")
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
		_, err = f.Get(ctx, "ftp://example.com/a.txt")
		assert.ErrorIs(t, err, ErrUnsupportedScheme)
	})

	t.Run("信号量已满时等待受ctx控制", func(t *testing.T) {
		f := newTestFetcher(1)
		require.NoError(t, f.sem.Acquire(ctx, 1))
		defer f.sem.Release(1)

		timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := f.Get(timeoutCtx, "http://127.0.0.1:1/")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("熔断后快速失败", func(t *testing.T) {
		srv, hits := sequenceServer(t, http.StatusServiceUnavailable)
		f := newTestFetcher(10)
		f.cfg.MaxRetries = 0
		for i := 0; i < 5; i++ {
			_, _ = f.Get(ctx, srv.URL)
		}
		require.Equal(t, circuitbreaker.StateOpen, f.breaker.State())

		before := atomic.LoadInt32(hits)
		_, err := f.Get(ctx, srv.URL)
		assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
		assert.Equal(t, before, atomic.LoadInt32(hits))
	})
}

func TestStatusError_Retryable(t *testing.T) {
	for code, want := range map[int]bool{
		429: true, 502: true, 503: true, 504: true,
		400: false, 404: false, 500: false,
	} {
		assert.Equal(t, want, (&StatusError{StatusCode: code}).Retryable(), code)
	}
}
