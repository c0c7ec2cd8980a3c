// Package catalog 目录读取用例（详情、阅读、目录、分类、排行、作者、搜索、长尾词）
//
// 设计说明:
// 1. 每个请求开始时取一次站点配置快照，整个请求期间只使用这一份
// 2. 所有读查询都经过读穿缓存，key包含请求站点
// 3. 对外ID在入口处还原为内部ID，无法还原一律按"不存在"处理
// 4. 行到对外记录的转换只通过novel.Mapper完成
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/novelsite/internal/domain/identity"
	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/internal/infrastructure/cache"
)

// latestChapterCount 详情页展示的最新章节数
const latestChapterCount = 12

// Enricher 长尾词补全（后台执行，不影响当前请求）
type Enricher interface {
	Trigger(cfg *site.Config, sourceID uint64, articleName string) bool
}

// Reader 各用例共享的读取能力
type Reader struct {
	sites *site.Store
	store novel.Store
	cache *cache.Cache
	keys  cache.KeyDeriver
	now   func() time.Time
}

// NewReader 创建Reader，c为nil时所有查询直通数据库
func NewReader(sites *site.Store, store novel.Store, c *cache.Cache, keys cache.KeyDeriver) *Reader {
	return &Reader{
		sites: sites,
		store: store,
		cache: c,
		keys:  keys,
		now:   time.Now,
	}
}

// scope 单个请求的上下文：站点、配置快照、查询生成器、映射器
type scope struct {
	host    string
	cfg     *site.Config
	queries novel.Queries
	mapper  novel.Mapper
}

func (r *Reader) scope(host string) scope {
	cfg := r.sites.Current()
	return scope{
		host:    host,
		cfg:     cfg,
		queries: novel.NewQueries(cfg),
		mapper:  novel.NewMapper(cfg, r.now()),
	}
}

// internalID 对外ID还原为内部ID，失败时返回notFound
func (s scope) internalID(publicID uint64, notFound error) (uint64, error) {
	id, err := s.cfg.Identity().ToInternal(publicID)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidID) {
			return 0, notFound
		}
		return 0, err
	}
	return id, nil
}

// queryRows 读穿缓存查询行
func queryRows[T any](ctx context.Context, r *Reader, s scope, kind cache.Kind, ttl time.Duration, st novel.Statement) ([]T, error) {
	key := r.keys.Derive(kind, cache.NewQuerySpec(s.host, st.SQL, st.Params...))
	return cache.GetOrLoad(ctx, r.cache, key, ttl, func(ctx context.Context) ([]T, error) {
		var rows []T
		if err := r.store.Query(ctx, &rows, st.SQL, st.Params...); err != nil {
			return nil, err
		}
		return rows, nil
	})
}

// queryCount 读穿缓存查询计数，0也会被缓存
func queryCount(ctx context.Context, r *Reader, s scope, ttl time.Duration, st novel.Statement) (int64, error) {
	key := r.keys.Derive(cache.KindCount, cache.NewQuerySpec(s.host, st.SQL, st.Params...))
	return cache.GetOrLoad(ctx, r.cache, key, ttl, func(ctx context.Context) (int64, error) {
		var n int64
		if err := r.store.Query(ctx, &n, st.SQL, st.Params...); err != nil {
			return 0, err
		}
		return n, nil
	})
}

// novelRow 按内部ID取小说
func (r *Reader) novelRow(ctx context.Context, s scope, sourceID uint64) (novel.NovelRow, error) {
	rows, err := queryRows[novel.NovelRow](ctx, r, s, cache.KindRows, s.cfg.TTL(site.TTLInfo), s.queries.NovelByID(sourceID))
	if err != nil {
		return novel.NovelRow{}, err
	}
	if len(rows) == 0 {
		return novel.NovelRow{}, novel.ErrNovelNotFound
	}
	return rows[0], nil
}

// chapterRows 小说的全部章节，按chapterid升序
func (r *Reader) chapterRows(ctx context.Context, s scope, sourceID uint64) ([]novel.ChapterRow, error) {
	return queryRows[novel.ChapterRow](ctx, r, s, cache.KindChapters, s.cfg.TTL(site.TTLChapter), s.queries.ChaptersByNovel(sourceID))
}

// langTailRows 小说的全部长尾词
func (r *Reader) langTailRows(ctx context.Context, s scope, sourceID uint64) ([]novel.LangTailRow, error) {
	return queryRows[novel.LangTailRow](ctx, r, s, cache.KindLangTailRows, s.cfg.TTL(site.TTLInfo), s.queries.LangTailsBySource(sourceID))
}

// Info 详情页数据
type Info struct {
	Novel          novel.Novel      `json:"novel"`
	FirstChapter   novel.Chapter    `json:"first_chapter"`
	LastChapter    novel.Chapter    `json:"last_chapter"`
	LatestChapters []novel.Chapter  `json:"latest_chapters"`
	ChapterCount   int              `json:"chapter_count"`
	LangTails      []novel.LangTail `json:"lang_tails,omitempty"`
}

// info 组装详情页数据（详情页和长尾词页共用）
func (r *Reader) info(ctx context.Context, s scope, row novel.NovelRow) (*Info, error) {
	chapterRows, err := r.chapterRows(ctx, s, row.ArticleID)
	if err != nil {
		return nil, err
	}

	n := s.mapper.Novel(row)
	out := &Info{
		Novel:          n,
		ChapterCount:   len(chapterRows),
		LatestChapters: make([]novel.Chapter, 0, latestChapterCount),
	}

	if len(chapterRows) == 0 {
		def := s.mapper.DefaultChapter(n.InfoURL)
		out.FirstChapter, out.LastChapter = def, def
	} else {
		out.FirstChapter = s.mapper.Chapter(chapterRows[0])
		out.LastChapter = s.mapper.Chapter(chapterRows[len(chapterRows)-1])
		// 最新章节倒序
		for i := len(chapterRows) - 1; i >= 0 && len(out.LatestChapters) < latestChapterCount; i-- {
			out.LatestChapters = append(out.LatestChapters, s.mapper.Chapter(chapterRows[i]))
		}
	}

	if s.cfg.IsLang {
		langRows, err := r.langTailRows(ctx, s, row.ArticleID)
		if err != nil {
			return nil, err
		}
		out.LangTails = s.mapper.LangTails(langRows)
	}
	return out, nil
}

// chapterFallbackURL 章节阅读页的边界链接：3合1站点回到目录第一页，否则回到详情页
func chapterFallbackURL(cfg *site.Config, publicID uint64) string {
	if cfg.Is3in1 {
		return cfg.IndexURL(publicID, 1)
	}
	return cfg.InfoURL(publicID)
}
