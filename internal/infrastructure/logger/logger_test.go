package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/novelsite/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	t.Run("默认配置", func(t *testing.T) {
		logger, err := New(config.LogConfig{})
		require.NoError(t, err)
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
		assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
		assert.Equal(t, os.Stdout, logger.Out)
	})

	t.Run("JSON格式", func(t *testing.T) {
		logger, err := New(config.LogConfig{Level: "debug", Format: "json", Output: "stderr"})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
		assert.Equal(t, os.Stderr, logger.Out)
	})

	t.Run("写入文件", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		logger, err := New(config.LogConfig{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)
		logger.WithField("host", "a.com").Info("hello")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"host":"a.com"`)
		assert.Contains(t, string(data), `"msg":"hello"`)
	})

	t.Run("无效级别", func(t *testing.T) {
		_, err := New(config.LogConfig{Level: "verbose"})
		assert.Error(t, err)
	})

	t.Run("无效格式", func(t *testing.T) {
		_, err := New(config.LogConfig{Format: "xml"})
		assert.Error(t, err)
	})
}
