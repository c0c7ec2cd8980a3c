package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownHost 无法识别Host时使用的占位名
const UnknownHost = "unknown.host"

const hostKey = "host"

// ResolveHost 站点识别中间件
// 设计说明：
// 1. 站点配置是进程级的一份快照，与Host无关；Host只用来隔离缓存键和记请求日志
// 2. Host统一转小写并去掉端口，同一站点的不同写法共用一份缓存
// 3. Handler通过GetHost读取，不直接访问c.Request.Host
func ResolveHost() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(hostKey, normalizeHost(c.Request.Host))
		c.Next()
	}
}

func normalizeHost(raw string) string {
	host := strings.TrimSpace(raw)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return UnknownHost
	}
	return host
}

// GetHost 从Context获取当前站点Host
// 未经过ResolveHost的请求（如单元测试直接调用Handler）现场解析
func GetHost(c *gin.Context) string {
	if host, exists := c.Get(hostKey); exists {
		if h, ok := host.(string); ok {
			return h
		}
	}
	return normalizeHost(c.Request.Host)
}
