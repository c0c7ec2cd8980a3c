package catalog

import (
	"context"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/internal/infrastructure/cache"
)

// RankUseCase 排行榜用例，排序列只能来自白名单
type RankUseCase struct {
	reader *Reader
}

// NewRankUseCase 创建排行榜用例
func NewRankUseCase(reader *Reader) *RankUseCase {
	return &RankUseCase{reader: reader}
}

// RankRequest 排行榜请求
type RankRequest struct {
	Host string
	Code string
}

// RankResponse 排行榜数据
type RankResponse struct {
	Board  novel.RankBoard `json:"board"`
	Novels []novel.Novel   `json:"novels"`
	URL    string          `json:"url"`
}

// Execute 执行排行榜查询
func (uc *RankUseCase) Execute(ctx context.Context, req RankRequest) (*RankResponse, error) {
	board, ok := novel.FindRankBoard(req.Code)
	if !ok {
		return nil, novel.ErrRankNotFound
	}

	s := uc.reader.scope(req.Host)
	rows, err := queryRows[novel.NovelRow](ctx, uc.reader, s, cache.KindRows, s.cfg.TTL(site.TTLRank), s.queries.Rank(board))
	if err != nil {
		return nil, err
	}
	return &RankResponse{
		Board:  board,
		Novels: s.mapper.Novels(rows),
		URL:    s.cfg.RankURL(board.Code),
	}, nil
}
