package catalog

import (
	"context"

	"github.com/xiebiao/novelsite/internal/domain/novel"
)

// GetInfoUseCase 小说详情用例
// 设计说明:
// 1. 对外ID无法还原、小说不存在都返回ErrNovelNotFound
// 2. 开启长尾词时顺带触发后台补全，请求本身不等待
type GetInfoUseCase struct {
	reader   *Reader
	enricher Enricher
}

// NewGetInfoUseCase 创建详情用例，enricher可以为nil
func NewGetInfoUseCase(reader *Reader, enricher Enricher) *GetInfoUseCase {
	return &GetInfoUseCase{reader: reader, enricher: enricher}
}

// GetInfoRequest 详情请求
type GetInfoRequest struct {
	Host string
	ID   uint64 // 对外ID
}

// Execute 执行详情查询
func (uc *GetInfoUseCase) Execute(ctx context.Context, req GetInfoRequest) (*Info, error) {
	s := uc.reader.scope(req.Host)

	sourceID, err := s.internalID(req.ID, novel.ErrNovelNotFound)
	if err != nil {
		return nil, err
	}

	row, err := uc.reader.novelRow(ctx, s, sourceID)
	if err != nil {
		return nil, err
	}

	info, err := uc.reader.info(ctx, s, row)
	if err != nil {
		return nil, err
	}

	if s.cfg.IsLang && uc.enricher != nil {
		uc.enricher.Trigger(s.cfg, row.ArticleID, row.ArticleName)
	}
	return info, nil
}
