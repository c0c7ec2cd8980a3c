package novel

import (
	"fmt"
	"strings"

	"github.com/xiebiao/novelsite/internal/domain/site"
)

// 字段列表和过滤条件随系统版本变化
const (
	novelFields       = "articleid,articlename,intro,author,sortid,fullflag,lastupdate,imgflag,allvisit,allvote,goodnum,keywords,lastchapter,lastchapterid,words"
	novelFieldsLegacy = "articleid,articlename,intro,author,sortid,fullflag,lastupdate,imgflag,allvisit,allvote,goodnum,keywords,lastchapter,lastchapterid,size AS words"
	novelWhere        = "display <> 1 AND words > 0"
	novelWhereLegacy  = "display <> 1 AND size > 0"
	chapterFields     = "articleid,chapterid,chaptername,chaptertype,chapterorder,lastupdate"
	langTailFields    = "langid,sourceid,langname,uptime"
)

const (
	// RankLimit 排行榜条数
	RankLimit = 100
	// SearchMaxLimit 搜索结果上限
	SearchMaxLimit = 100
)

// RankBoards 排行榜代码与名称，代码同时是排序列
var RankBoards = []RankBoard{
	{Code: "allvisit", Title: "总排行榜"},
	{Code: "monthvisit", Title: "月排行榜"},
	{Code: "weekvisit", Title: "周排行榜"},
	{Code: "dayvisit", Title: "日排行榜"},
	{Code: "allvote", Title: "总推荐榜"},
	{Code: "monthvote", Title: "月推荐榜"},
	{Code: "weekvote", Title: "周推荐榜"},
	{Code: "dayvote", Title: "日推荐榜"},
	{Code: "goodnum", Title: "收藏榜"},
}

// RankBoard 排行榜
type RankBoard struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// FindRankBoard 按代码查找排行榜（白名单）
func FindRankBoard(code string) (RankBoard, bool) {
	for _, b := range RankBoards {
		if b.Code == code {
			return b, true
		}
	}
	return RankBoard{}, false
}

// Statement SQL模板与有序参数
type Statement struct {
	SQL    string
	Params []any
}

func stmt(sql string, params ...any) Statement {
	return Statement{SQL: sql, Params: params}
}

// Queries 根据站点配置生成查询语句
//
// 表前缀在配置校验时已限制为字母数字下划线，可以安全拼接
type Queries struct {
	cfg *site.Config
}

// NewQueries 绑定一份配置快照
func NewQueries(cfg *site.Config) Queries {
	return Queries{cfg: cfg}
}

func (q Queries) fields() string {
	if q.cfg.SysVer < 2.0 {
		return novelFieldsLegacy
	}
	return novelFields
}

func (q Queries) where() string {
	if q.cfg.SysVer < 2.0 {
		return novelWhereLegacy
	}
	return novelWhere
}

func (q Queries) articleTable() string {
	return q.cfg.Prefix + "article_article"
}

func (q Queries) langTailTable() string {
	return q.cfg.Prefix + "article_langtail"
}

// ChapterTable 章节表，5.0以上版本按ID分表
func (q Queries) ChapterTable(sourceID uint64) string {
	if q.cfg.SysVer > 5.0 {
		return fmt.Sprintf("%sarticle_chapter_%d", q.cfg.Prefix, sourceID/10000)
	}
	return q.cfg.Prefix + "article_chapter"
}

func (q Queries) selectNovels(tail string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s%s", q.fields(), q.articleTable(), q.where(), tail)
}

// NovelByID 小说详情
func (q Queries) NovelByID(sourceID uint64) Statement {
	return stmt(q.selectNovels(" AND articleid = ? LIMIT 1"), sourceID)
}

// ChaptersByNovel 小说的全部章节
func (q Queries) ChaptersByNovel(sourceID uint64) Statement {
	return stmt(fmt.Sprintf("SELECT %s FROM %s WHERE articleid = ? ORDER BY chapterid ASC",
		chapterFields, q.ChapterTable(sourceID)), sourceID)
}

// CountBySort 分类下的小说数
func (q Queries) CountBySort(sortID int) Statement {
	return stmt(fmt.Sprintf("SELECT COUNT(*) AS cnt FROM %s WHERE %s AND sortid = ?",
		q.articleTable(), q.where()), sortID)
}

// NovelsBySort 分类列表的一页
func (q Queries) NovelsBySort(sortID, offset int) Statement {
	return stmt(q.selectNovels(fmt.Sprintf(" AND sortid = ? ORDER BY lastupdate DESC LIMIT %d OFFSET ?",
		q.cfg.CategoryPerPage)), sortID, offset)
}

// Rank 排行榜，排序列来自白名单
func (q Queries) Rank(board RankBoard) Statement {
	return stmt(q.selectNovels(fmt.Sprintf(" ORDER BY %s DESC LIMIT %d", board.Code, RankLimit)))
}

// ByAuthor 作者的全部作品
func (q Queries) ByAuthor(author string) Statement {
	return stmt(q.selectNovels(" AND author = ? ORDER BY lastupdate DESC"), author)
}

// Search 按书名或作者搜索，6.0以上版本使用全文索引
func (q Queries) Search(keyword string, limit int) Statement {
	if q.cfg.SysVer > 6.0 {
		return stmt(q.selectNovels(fmt.Sprintf(
			" AND MATCH(articlename, author) AGAINST(CONCAT('+',?) IN BOOLEAN MODE) ORDER BY lastupdate DESC LIMIT %d", limit)),
			keyword)
	}
	return stmt(q.selectNovels(fmt.Sprintf(
		" AND (articlename LIKE CONCAT('%%',?,'%%') OR author LIKE CONCAT('%%',?,'%%')) ORDER BY lastupdate DESC LIMIT %d", limit)),
		keyword, keyword)
}

// Random 随机推荐
func (q Queries) Random(limit int) Statement {
	table := q.articleTable()
	return stmt(fmt.Sprintf(
		"SELECT %s FROM %s WHERE articleid >= (SELECT FLOOR(RAND() * (SELECT MAX(articleid) FROM %s))) ORDER BY lastupdate DESC LIMIT %d",
		q.fields(), table, table, limit))
}

// LangTailByID 单个长尾词
func (q Queries) LangTailByID(langID uint64) Statement {
	return stmt(fmt.Sprintf("SELECT %s FROM %s WHERE langid = ? LIMIT 1", langTailFields, q.langTailTable()), langID)
}

// LangTailsBySource 小说的全部长尾词
func (q Queries) LangTailsBySource(sourceID uint64) Statement {
	return stmt(fmt.Sprintf("SELECT %s FROM %s WHERE sourceid = ?", langTailFields, q.langTailTable()), sourceID)
}

// LangTailLatest 小说最近一次生成长尾词的记录
func (q Queries) LangTailLatest(sourceID uint64) Statement {
	return stmt(fmt.Sprintf("SELECT %s FROM %s WHERE sourceid = ? ORDER BY uptime DESC LIMIT 1",
		langTailFields, q.langTailTable()), sourceID)
}

// UpsertLangTails 批量写入长尾词，已存在的只刷新时间
//
// 跳过空词和与书名相同的词；没有可写入的词时ok为false
func (q Queries) UpsertLangTails(sourceID uint64, articleName string, names []string, uptime int64) (Statement, bool) {
	placeholders := make([]string, 0, len(names))
	params := make([]any, 0, len(names)*3)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == articleName {
			continue
		}
		placeholders = append(placeholders, "(?, ?, ?)")
		params = append(params, sourceID, name, uptime)
	}
	if len(placeholders) == 0 {
		return Statement{}, false
	}
	sql := fmt.Sprintf("INSERT INTO %s (sourceid, langname, uptime) VALUES %s ON DUPLICATE KEY UPDATE uptime = VALUES(uptime)",
		q.langTailTable(), strings.Join(placeholders, ","))
	return Statement{SQL: sql, Params: params}, true
}
