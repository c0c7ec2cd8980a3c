package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/domain/site"
)

// memStore 按SQL形状应答的内存Store
type memStore struct {
	mu        sync.Mutex
	perPage   int
	novels    []novel.NovelRow
	chapters  map[uint64][]novel.ChapterRow
	langTails []novel.LangTailRow
	queries   []string
	execs     []string
	err       error
}

func newMemStore(perPage int) *memStore {
	return &memStore{perPage: perPage, chapters: map[uint64][]novel.ChapterRow{}}
}

func (m *memStore) queryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

func (m *memStore) Query(_ context.Context, dest any, sql string, params ...any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, sql)
	if m.err != nil {
		return m.err
	}

	switch d := dest.(type) {
	case *int64:
		sortID := params[0].(int)
		var n int64
		for _, r := range m.novels {
			if r.SortID == sortID {
				n++
			}
		}
		*d = n
	case *[]novel.ChapterRow:
		*d = append([]novel.ChapterRow(nil), m.chapters[params[0].(uint64)]...)
	case *[]novel.LangTailRow:
		*d = m.langTailRows(sql, params)
	case *[]novel.NovelRow:
		*d = m.novelRows(sql, params)
	default:
		return fmt.Errorf("memStore: unsupported dest %T", dest)
	}
	return nil
}

func (m *memStore) langTailRows(sql string, params []any) []novel.LangTailRow {
	var out []novel.LangTailRow
	id := params[0].(uint64)
	for _, r := range m.langTails {
		if strings.Contains(sql, "langid = ?") && r.LangID == id {
			out = append(out, r)
		}
		if strings.Contains(sql, "sourceid = ?") && r.SourceID == id {
			out = append(out, r)
		}
	}
	return out
}

func (m *memStore) novelRows(sql string, params []any) []novel.NovelRow {
	var out []novel.NovelRow
	switch {
	case strings.Contains(sql, "RAND()"):
		out = append(out, m.novels...)
	case strings.Contains(sql, "LIKE"):
		kw := params[0].(string)
		for _, r := range m.novels {
			if strings.Contains(r.ArticleName, kw) || strings.Contains(r.Author, kw) {
				out = append(out, r)
			}
		}
	case strings.Contains(sql, "author = ?"):
		for _, r := range m.novels {
			if r.Author == params[0].(string) {
				out = append(out, r)
			}
		}
	case strings.Contains(sql, "sortid = ?"):
		sortID, offset := params[0].(int), params[1].(int)
		var all []novel.NovelRow
		for _, r := range m.novels {
			if r.SortID == sortID {
				all = append(all, r)
			}
		}
		for i := offset; i < len(all) && i < offset+m.perPage; i++ {
			out = append(out, all[i])
		}
	case strings.Contains(sql, "articleid = ?"):
		for _, r := range m.novels {
			if r.ArticleID == params[0].(uint64) {
				out = append(out, r)
			}
		}
	case strings.Contains(sql, "ORDER BY allvisit DESC"):
		out = append(out, m.novels...)
		sort.Slice(out, func(i, j int) bool { return out[i].AllVisit > out[j].AllVisit })
	}
	return out
}

func (m *memStore) Exec(_ context.Context, sql string, _ ...any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.execs = append(m.execs, sql)
	return 1, m.err
}

// memTexts 章节正文
type memTexts map[string]string

func (t memTexts) Read(_ context.Context, location string) (string, error) {
	if location == "broken" {
		return "", errors.New("io error")
	}
	return t[location], nil
}

// recordingEnricher 记录触发
type recordingEnricher struct {
	mu       sync.Mutex
	triggers []uint64
}

func (r *recordingEnricher) Trigger(_ *site.Config, sourceID uint64, _ string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, sourceID)
	return true
}
