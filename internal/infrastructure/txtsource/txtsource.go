// Package txtsource 章节正文读取
//
// 正文按 {txt_url}/{id/1000}/{id}/{cid}.txt 存放，txt_url 可以是本地目录，
// 也可以是 http(s) 地址。文件通常是GBK编码，合法UTF-8的内容原样返回。
package txtsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/xiebiao/novelsite/internal/infrastructure/fetcher"
	apperrors "github.com/xiebiao/novelsite/pkg/errors"
	"github.com/xiebiao/novelsite/pkg/tracing"
)

const tracerName = "novelsite/txtsource"

// Fetcher 远程读取
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Source 实现novel.TextSource
type Source struct {
	fetcher Fetcher
}

// New 创建正文来源，fetcher为nil时只支持本地文件
func New(f Fetcher) *Source {
	return &Source{fetcher: f}
}

// Read 读取并解码正文；文件不存在返回空字符串
func (s *Source) Read(ctx context.Context, location string) (text string, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "txtsource.Read")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()
	remote := isRemote(location)
	span.SetAttributes(attribute.String("txt.location", location), attribute.Bool("txt.remote", remote))

	var raw []byte
	if remote {
		raw, err = s.readRemote(ctx, location)
	} else {
		raw, err = os.ReadFile(location)
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
	}
	if err != nil {
		return "", err
	}
	return Decode(raw)
}

func (s *Source) readRemote(ctx context.Context, location string) ([]byte, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("txtsource: remote location %q without fetcher", location)
	}
	raw, err := s.fetcher.Get(ctx, location)
	if err == nil {
		return raw, nil
	}
	var se *fetcher.StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	return nil, apperrors.WithCode(apperrors.ErrCodeUpstreamError, "章节正文获取失败", err)
}

// Decode UTF-8原样返回，否则按GBK解码
func Decode(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("txtsource: decode gbk: %w", err)
	}
	return string(out), nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
