package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/pagination"
	"github.com/xiebiao/novelsite/pkg/textutil"
)

// ReadChapterUseCase 章节阅读用例
// 设计说明:
// 1. 章节列表走缓存，正文按位置从TextSource读取，不单独缓存
// 2. 分页只影响展示，同一份正文在任何一页请求中切分结果一致
// 3. 第一章的上一章、最后一章的下一章回到目录页（3合1站点回到详情页）
type ReadChapterUseCase struct {
	reader *Reader
	texts  novel.TextSource
}

// NewReadChapterUseCase 创建阅读用例
func NewReadChapterUseCase(reader *Reader, texts novel.TextSource) *ReadChapterUseCase {
	return &ReadChapterUseCase{reader: reader, texts: texts}
}

// ReadChapterRequest 阅读请求
type ReadChapterRequest struct {
	Host      string
	ID        uint64 // 对外小说ID
	ChapterID uint64 // 对外章节ID
	Page      int
}

// ReadChapterResponse 阅读页数据
type ReadChapterResponse struct {
	Novel          novel.Novel       `json:"novel"`
	Chapter        novel.Chapter     `json:"chapter"`
	Page           pagination.Window `json:"page"`
	PrevChapterURL string            `json:"prev_url"`
	NextChapterURL string            `json:"next_url"`
	InfoURL        string            `json:"info_url"`
	IndexURL       string            `json:"index_url"`
}

// Execute 执行阅读查询
func (uc *ReadChapterUseCase) Execute(ctx context.Context, req ReadChapterRequest) (*ReadChapterResponse, error) {
	s := uc.reader.scope(req.Host)

	sourceID, err := s.internalID(req.ID, novel.ErrNovelNotFound)
	if err != nil {
		return nil, err
	}
	chapterSourceID, err := s.internalID(req.ChapterID, novel.ErrChapterNotFound)
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

	idx := -1
	for i, c := range chapters {
		if c.ChapterID == chapterSourceID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, novel.ErrChapterNotFound
	}

	n := s.mapper.Novel(row)
	chapter := s.mapper.Chapter(chapters[idx])
	fallback := chapterFallbackURL(s.cfg, n.ArticleID)

	resp := &ReadChapterResponse{
		Novel:          n,
		Chapter:        chapter,
		PrevChapterURL: fallback,
		NextChapterURL: fallback,
		InfoURL:        n.InfoURL,
		IndexURL:       n.IndexURL,
	}
	if idx > 0 {
		resp.PrevChapterURL = s.mapper.Chapter(chapters[idx-1]).ReadURL
	}
	if idx < len(chapters)-1 {
		resp.NextChapterURL = s.mapper.Chapter(chapters[idx+1]).ReadURL
	}

	text, err := uc.texts.Read(ctx, novel.ChapterTextLocation(s.cfg.TxtURL, sourceID, chapterSourceID))
	if err != nil {
		return nil, err
	}
	text = textutil.NormalizeBreaks(text)
	if strings.TrimSpace(text) == "" {
		text = novel.EmptyChapterText
	}

	window, err := pagination.Paginate(text, s.cfg.ReadPageSplitMode, s.cfg.ReadPageSplitLines, req.Page,
		func(page int) string { return s.cfg.ReadURL(n.ArticleID, chapter.ChapterID, uint64(page)) })
	if err != nil {
		if errors.Is(err, pagination.ErrPageOutOfRange) {
			return nil, novel.ErrPageOutOfRange
		}
		return nil, err
	}
	resp.Page = window
	return resp, nil
}
