package novel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueries_ChapterTable(t *testing.T) {
	cfg := newSiteConfig()
	q := NewQueries(cfg)
	assert.Equal(t, "jieqi_article_chapter_1", q.ChapterTable(12345), "5.0以上按万分表")

	cfg.SysVer = 4.0
	assert.Equal(t, "jieqi_article_chapter", NewQueries(cfg).ChapterTable(12345))
}

func TestQueries_FieldsByVersion(t *testing.T) {
	cfg := newSiteConfig()
	cfg.SysVer = 1.7
	s := NewQueries(cfg).NovelByID(3)
	assert.Contains(t, s.SQL, "size AS words")
	assert.Contains(t, s.SQL, "size > 0")
	assert.Equal(t, []any{uint64(3)}, s.Params)
}

func TestQueries_NovelsBySort(t *testing.T) {
	s := NewQueries(newSiteConfig()).NovelsBySort(2, 40)
	assert.Contains(t, s.SQL, "FROM jieqi_article_article WHERE")
	assert.Contains(t, s.SQL, "ORDER BY lastupdate DESC LIMIT 20 OFFSET ?")
	assert.Equal(t, []any{2, 40}, s.Params)
}

func TestQueries_Search(t *testing.T) {
	cfg := newSiteConfig()

	like := NewQueries(cfg).Search("斗破", 30)
	assert.Contains(t, like.SQL, "LIKE CONCAT('%',?,'%')")
	assert.NotContains(t, like.SQL, "斗破", "关键词不能拼接进SQL")
	assert.Equal(t, []any{"斗破", "斗破"}, like.Params)

	cfg.SysVer = 6.5
	ft := NewQueries(cfg).Search("斗破", 30)
	assert.Contains(t, ft.SQL, "AGAINST(CONCAT('+',?) IN BOOLEAN MODE)")
	assert.Equal(t, []any{"斗破"}, ft.Params)
}

func TestQueries_Rank(t *testing.T) {
	board, ok := FindRankBoard("monthvisit")
	assert.True(t, ok)
	s := NewQueries(newSiteConfig()).Rank(board)
	assert.Contains(t, s.SQL, "ORDER BY monthvisit DESC LIMIT 100")

	_, ok = FindRankBoard("articleid; DROP TABLE x")
	assert.False(t, ok)
}

func TestQueries_UpsertLangTails(t *testing.T) {
	q := NewQueries(newSiteConfig())

	s, ok := q.UpsertLangTails(9, "测试小说", []string{"测试小说", "", "测试小说全文阅读", " 测试小说txt "}, 1700000000)
	assert.True(t, ok)
	assert.Equal(t, "INSERT INTO jieqi_article_langtail (sourceid, langname, uptime) VALUES (?, ?, ?),(?, ?, ?) ON DUPLICATE KEY UPDATE uptime = VALUES(uptime)", s.SQL)
	assert.Equal(t, []any{uint64(9), "测试小说全文阅读", int64(1700000000), uint64(9), "测试小说txt", int64(1700000000)}, s.Params)

	_, ok = q.UpsertLangTails(9, "测试小说", []string{"测试小说", " "}, 1)
	assert.False(t, ok, "没有可写入的词")
}
