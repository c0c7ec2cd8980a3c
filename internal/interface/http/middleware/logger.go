package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/novelsite/pkg/tracing"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
//
// 1. 每个请求生成唯一ID，上游已带X-Request-ID时沿用
// 2. 请求结束后输出一条结构化日志（方法、路径、状态码、耗时、站点），有链路时带上trace_id
// 3. Handler通过c.Error挂上的内部错误在这里统一记录
func Logger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		entry := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"host":       GetHost(c),
		})
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			entry = entry.WithField("trace_id", traceID)
		}

		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("请求处理失败")
		case latency > slowRequestThreshold:
			entry.Warn("慢请求")
		default:
			entry.Info("请求完成")
		}
	}
}

// GetRequestID 从Context获取请求ID
func GetRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
