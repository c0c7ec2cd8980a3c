package catalog

import (
	"context"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/internal/infrastructure/cache"
)

// GetLangTailUseCase 长尾词页用例
// 长尾词页展示所属小说的详情，书名换成长尾词，链接换成长尾词页链接
type GetLangTailUseCase struct {
	reader *Reader
}

// NewGetLangTailUseCase 创建长尾词页用例
func NewGetLangTailUseCase(reader *Reader) *GetLangTailUseCase {
	return &GetLangTailUseCase{reader: reader}
}

// GetLangTailRequest 长尾词页请求
type GetLangTailRequest struct {
	Host string
	ID   uint64 // 对外长尾词ID
}

// LangTailResponse 长尾词页数据
type LangTailResponse struct {
	LangTail novel.LangTail `json:"lang_tail"`
	Info     *Info          `json:"info"`
}

// Execute 执行长尾词页查询
func (uc *GetLangTailUseCase) Execute(ctx context.Context, req GetLangTailRequest) (*LangTailResponse, error) {
	s := uc.reader.scope(req.Host)

	langID, err := s.internalID(req.ID, novel.ErrLangTailNotFound)
	if err != nil {
		return nil, err
	}

	langRows, err := queryRows[novel.LangTailRow](ctx, uc.reader, s, cache.KindLangTail, s.cfg.TTL(site.TTLInfo), s.queries.LangTailByID(langID))
	if err != nil {
		return nil, err
	}
	if len(langRows) == 0 {
		return nil, novel.ErrLangTailNotFound
	}
	lang := langRows[0]

	row, err := uc.reader.novelRow(ctx, s, lang.SourceID)
	if err != nil {
		return nil, err
	}
	info, err := uc.reader.info(ctx, s, row)
	if err != nil {
		return nil, err
	}

	tail := s.mapper.LangTail(lang)
	info.Novel.ArticleName = tail.LangName
	info.Novel.InfoURL = tail.InfoURL
	info.Novel.IndexURL = tail.IndexURL
	return &LangTailResponse{LangTail: tail, Info: info}, nil
}
