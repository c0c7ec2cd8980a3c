package catalog

import (
	"context"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/pagination"
)

// IndexListUseCase 章节目录分页用例
type IndexListUseCase struct {
	reader *Reader
}

// NewIndexListUseCase 创建目录用例
func NewIndexListUseCase(reader *Reader) *IndexListUseCase {
	return &IndexListUseCase{reader: reader}
}

// IndexListRequest 目录请求
type IndexListRequest struct {
	Host string
	ID   uint64
	Page int
}

// IndexListResponse 目录页数据
type IndexListResponse struct {
	Novel      novel.Novel     `json:"novel"`
	Chapters   []novel.Chapter `json:"chapters"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
	PrevURL    string          `json:"prev_url"`
	NextURL    string          `json:"next_url"`
	PageURLs   []string        `json:"page_urls"`
}

// Execute 执行目录查询
// 每页 index_list_num 章，首页的上一页和末页的下一页都回到详情页
func (uc *IndexListUseCase) Execute(ctx context.Context, req IndexListRequest) (*IndexListResponse, error) {
	s := uc.reader.scope(req.Host)

	sourceID, err := s.internalID(req.ID, novel.ErrNovelNotFound)
	if err != nil {
		return nil, err
	}
	row, err := uc.reader.novelRow(ctx, s, sourceID)
	if err != nil {
		return nil, err
	}
	chapters, err := uc.reader.chapterRows(ctx, s, sourceID)
	if err != nil {
		return nil, err
	}

	perPage := s.cfg.IndexListNum
	page := pagination.Normalize(req.Page)
	total := pagination.PageCount(int64(len(chapters)), perPage)
	if page > total {
		return nil, novel.ErrPageOutOfRange
	}

	start := pagination.Offset(page, perPage)
	end := min(start+perPage, len(chapters))

	n := s.mapper.Novel(row)
	resp := &IndexListResponse{
		Novel:      n,
		Chapters:   s.mapper.Chapters(chapters[start:end]),
		Page:       page,
		TotalPages: total,
		PrevURL:    n.InfoURL,
		NextURL:    n.InfoURL,
		PageURLs:   make([]string, 0, total),
	}
	if page > 1 {
		resp.PrevURL = s.cfg.IndexURL(n.ArticleID, uint64(page-1))
	}
	if page < total {
		resp.NextURL = s.cfg.IndexURL(n.ArticleID, uint64(page+1))
	}
	for p := 1; p <= total; p++ {
		resp.PageURLs = append(resp.PageURLs, s.cfg.IndexURL(n.ArticleID, uint64(p)))
	}
	return resp, nil
}
