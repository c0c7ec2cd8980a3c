package catalog

import (
	"context"
	"strings"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/internal/infrastructure/cache"
	apperrors "github.com/xiebiao/novelsite/pkg/errors"
)

// ByAuthorUseCase 作者作品列表用例
type ByAuthorUseCase struct {
	reader *Reader
}

// NewByAuthorUseCase 创建作者用例
func NewByAuthorUseCase(reader *Reader) *ByAuthorUseCase {
	return &ByAuthorUseCase{reader: reader}
}

// ByAuthorRequest 作者请求
type ByAuthorRequest struct {
	Host   string
	Author string
}

// ByAuthorResponse 作者作品
type ByAuthorResponse struct {
	Author string        `json:"author"`
	URL    string        `json:"url"`
	Novels []novel.Novel `json:"novels"`
}

// Execute 执行作者查询，没有作品时返回空列表
func (uc *ByAuthorUseCase) Execute(ctx context.Context, req ByAuthorRequest) (*ByAuthorResponse, error) {
	author := strings.TrimSpace(req.Author)
	if author == "" {
		return nil, apperrors.ErrInvalidParams
	}

	s := uc.reader.scope(req.Host)
	rows, err := queryRows[novel.NovelRow](ctx, uc.reader, s, cache.KindRows, s.cfg.TTL(site.TTLOther), s.queries.ByAuthor(author))
	if err != nil {
		return nil, err
	}
	return &ByAuthorResponse{
		Author: author,
		URL:    s.cfg.AuthorURL(author),
		Novels: s.mapper.Novels(rows),
	}, nil
}
