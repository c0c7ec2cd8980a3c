package novel

import (
	"time"

	"github.com/xiebiao/novelsite/internal/domain/identity"
	"github.com/xiebiao/novelsite/internal/domain/site"
	"github.com/xiebiao/novelsite/pkg/textutil"
)

const (
	// 列表页简介字数
	introExcerptLength = 200

	defaultChapterName = "暂无章节"
)

// Mapper 把数据库行映射为对外记录
//
// 设计说明:
// 1. 纯函数：同一份配置快照、同一时刻，对同一行总是得到同一结果
// 2. 这是内部ID变成对外ID的唯一出口
// 3. 无法计算的派生字段使用默认值，映射本身不会失败
type Mapper struct {
	cfg *site.Config
	ids identity.Mapper
	now time.Time
}

// NewMapper 绑定配置快照和当前时间（相对时间以now为基准）
func NewMapper(cfg *site.Config, now time.Time) Mapper {
	return Mapper{cfg: cfg, ids: cfg.Identity(), now: now}
}

// PublicID 内部ID转对外ID
func (m Mapper) PublicID(sourceID uint64) uint64 {
	return m.ids.ToPublic(sourceID)
}

// Novel 映射单本小说
func (m Mapper) Novel(r NovelRow) Novel {
	id := m.ids.ToPublic(r.ArticleID)
	n := Novel{
		ArticleID:     id,
		SourceID:      r.ArticleID,
		ArticleName:   r.ArticleName,
		Intro:         r.Intro,
		IntroDes:      textutil.Excerpt(r.Intro, introExcerptLength),
		Author:        r.Author,
		AuthorURL:     m.cfg.AuthorURL(r.Author),
		SortID:        r.SortID,
		SortName:      m.cfg.SortName(r.SortID),
		FullFlag:      r.FullFlag != 0,
		IsFull:        "连载中",
		LastUpdate:    r.LastUpdate,
		LastUpdateCN:  textutil.RelativeTime(r.LastUpdate, m.now),
		ImgURL:        m.cfg.ImgURL(r.ArticleID, r.ImgFlag != 0),
		AllVisit:      r.AllVisit,
		AllVote:       r.AllVote,
		GoodNum:       r.GoodNum,
		Keywords:      r.Keywords,
		LastChapter:   r.LastChapter,
		LastChapterID: m.ids.ToPublic(r.LastChapterID),
		Words:         r.Words,
		WordsW:        r.Words / 10000,
		InfoURL:       m.cfg.InfoURL(id),
		IndexURL:      m.cfg.IndexURL(id, 1),
	}
	n.SortName2 = firstRunes(n.SortName, 2)
	if s, ok := m.cfg.SortByID(r.SortID); ok {
		n.SortURL = m.cfg.SortURL(s.Code, r.SortID, 1)
	}
	if n.FullFlag {
		n.IsFull = "已完结"
	}
	n.LastURL = m.cfg.ReadURL(id, n.LastChapterID, 1)
	return n
}

// Novels 映射小说列表
func (m Mapper) Novels(rows []NovelRow) []Novel {
	out := make([]Novel, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.Novel(r))
	}
	return out
}

// Chapter 映射单个章节
func (m Mapper) Chapter(r ChapterRow) Chapter {
	aid := m.ids.ToPublic(r.ArticleID)
	cid := m.ids.ToPublic(r.ChapterID)
	return Chapter{
		ArticleID:    aid,
		ChapterID:    cid,
		SourceID:     r.ChapterID,
		ChapterName:  r.ChapterName,
		ChapterType:  r.ChapterType,
		ChapterOrder: r.ChapterOrder,
		LastUpdate:   r.LastUpdate,
		ReadURL:      m.cfg.ReadURL(aid, cid, 1),
	}
}

// Chapters 映射章节列表
func (m Mapper) Chapters(rows []ChapterRow) []Chapter {
	out := make([]Chapter, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.Chapter(r))
	}
	return out
}

// DefaultChapter 没有章节时的占位章节，链接指向详情页
func (m Mapper) DefaultChapter(infoURL string) Chapter {
	return Chapter{ChapterName: defaultChapterName, ReadURL: infoURL}
}

// LangTail 映射长尾词
func (m Mapper) LangTail(r LangTailRow) LangTail {
	id := m.ids.ToPublic(r.LangID)
	return LangTail{
		LangID:   id,
		LangName: r.LangName,
		Uptime:   r.Uptime,
		InfoURL:  m.cfg.LangInfoURL(id),
		IndexURL: m.cfg.LangIndexURL(id, 1),
	}
}

// LangTails 映射长尾词列表
func (m Mapper) LangTails(rows []LangTailRow) []LangTail {
	out := make([]LangTail, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.LangTail(r))
	}
	return out
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
