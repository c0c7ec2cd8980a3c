package catalog

import (
	"context"
	"strconv"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/pagination"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/internal/infrastructure/cache"
)

// ListCategoryUseCase 分类列表用例
// 设计说明:
// 1. 分类可以用sortid数字或分类代码指定
// 2. 先查总数（缓存），算出最大页码后再查当前页
// 3. 页码超过最大页返回ErrPageOutOfRange
type ListCategoryUseCase struct {
	reader *Reader
}

// NewListCategoryUseCase 创建分类列表用例
func NewListCategoryUseCase(reader *Reader) *ListCategoryUseCase {
	return &ListCategoryUseCase{reader: reader}
}

// ListCategoryRequest 分类列表请求
type ListCategoryRequest struct {
	Host string
	Sort string // sortid 或分类代码
	Page int
}

// PageLink 跳页链接
type PageLink struct {
	Page int    `json:"page"`
	URL  string `json:"url"`
}

// ListCategoryResponse 分类列表数据
type ListCategoryResponse struct {
	Sort      site.Sort     `json:"sort"`
	SortID    int           `json:"sortid"`
	Novels    []novel.Novel `json:"novels"`
	Total     int64         `json:"total"`
	Page      int           `json:"page"`
	MaxPage   int           `json:"max_page"`
	PrevURL   string        `json:"prev_url"`
	NextURL   string        `json:"next_url"`
	JumpPages []PageLink    `json:"jump_pages"`
}

// Execute 执行分类列表查询
func (uc *ListCategoryUseCase) Execute(ctx context.Context, req ListCategoryRequest) (*ListCategoryResponse, error) {
	s := uc.reader.scope(req.Host)

	sortID, sort, ok := resolveSort(s.cfg, req.Sort)
	if !ok {
		return nil, novel.ErrSortNotFound
	}

	ttl := s.cfg.TTL(site.TTLSort)
	count, err := queryCount(ctx, uc.reader, s, ttl, s.queries.CountBySort(sortID))
	if err != nil {
		return nil, err
	}

	perPage := s.cfg.CategoryPerPage
	page := pagination.Normalize(req.Page)
	maxPage := pagination.PageCount(count, perPage)
	if page > maxPage {
		return nil, novel.ErrPageOutOfRange
	}

	rows, err := queryRows[novel.NovelRow](ctx, uc.reader, s, cache.KindRows, ttl,
		s.queries.NovelsBySort(sortID, pagination.Offset(page, perPage)))
	if err != nil {
		return nil, err
	}

	resp := &ListCategoryResponse{
		Sort:    sort,
		SortID:  sortID,
		Novels:  s.mapper.Novels(rows),
		Total:   count,
		Page:    page,
		MaxPage: maxPage,
	}
	if page > 1 {
		resp.PrevURL = s.cfg.SortURL(sort.Code, sortID, page-1)
	}
	if page < maxPage {
		resp.NextURL = s.cfg.SortURL(sort.Code, sortID, page+1)
	}
	for _, p := range pagination.JumpWindow(page, maxPage) {
		resp.JumpPages = append(resp.JumpPages, PageLink{Page: p, URL: s.cfg.SortURL(sort.Code, sortID, p)})
	}
	return resp, nil
}

// resolveSort 数字按sortid查，否则按分类代码查
func resolveSort(cfg *site.Config, ref string) (int, site.Sort, bool) {
	if id, err := strconv.Atoi(ref); err == nil {
		sort, ok := cfg.SortByID(id)
		return id, sort, ok
	}
	id, ok := cfg.SortIDByCode(ref)
	if !ok {
		return 0, site.Sort{}, false
	}
	sort, _ := cfg.SortByID(id)
	return id, sort, true
}
