package catalog

import (
	"context"
	"strings"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/pagination"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/internal/infrastructure/cache"
)

// defaultSearchLimit 未配置结果数时使用
const defaultSearchLimit = 30

// SearchUseCase 搜索用例
// 设计说明:
// 1. search.delay < 0 表示关闭搜索
// 2. 关键词按字（字素簇）计数，少于search.min返回ErrKeywordTooShort
// 3. 关键词只作为绑定参数，不拼接进SQL
// 4. 没有结果时返回随机推荐，推荐结果不缓存
type SearchUseCase struct {
	reader *Reader
}

// NewSearchUseCase 创建搜索用例
func NewSearchUseCase(reader *Reader) *SearchUseCase {
	return &SearchUseCase{reader: reader}
}

// SearchRequest 搜索请求
type SearchRequest struct {
	Host    string
	Keyword string
}

// SearchResponse 搜索结果
type SearchResponse struct {
	Keyword     string        `json:"keyword"`
	Novels      []novel.Novel `json:"novels"`
	Recommended bool          `json:"recommended"` // true 表示没有匹配结果，返回的是随机推荐
}

// Execute 执行搜索
func (uc *SearchUseCase) Execute(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	s := uc.reader.scope(req.Host)
	if s.cfg.Search.Delay < 0 {
		return nil, novel.ErrSearchDisabled
	}

	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" || pagination.GraphemeCount(keyword) < s.cfg.Search.Min {
		return nil, novel.ErrKeywordTooShort
	}

	limit := searchLimit(s.cfg)
	rows, err := queryRows[novel.NovelRow](ctx, uc.reader, s, cache.KindRows, s.cfg.TTL(site.TTLSearch), s.queries.Search(keyword, limit))
	if err != nil {
		return nil, err
	}

	resp := &SearchResponse{Keyword: keyword}
	if len(rows) == 0 {
		st := s.queries.Random(limit)
		if err := uc.reader.store.Query(ctx, &rows, st.SQL, st.Params...); err != nil {
			return nil, err
		}
		resp.Recommended = true
	}
	resp.Novels = s.mapper.Novels(rows)
	return resp, nil
}

func searchLimit(cfg *site.Config) int {
	limit := cfg.Search.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return min(limit, novel.SearchMaxLimit)
}
