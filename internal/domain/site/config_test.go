package site

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *Config {
	return &Config{
		SiteName:           "测试站",
		Prefix:             "jieqi_",
		SysVer:             6.0,
		RemoteImgURL:       "https://img.example.com",
		ThemeDir:           "default",
		CategoryPerPage:    20,
		IndexListNum:       50,
		ReadPageSplitMode:  SplitLines,
		ReadPageSplitLines: 20,
		Rewrite: Rewrite{
			InfoURL:      "/book/{sid}/{id}/",
			ChapterURL:   "/read/{id}/{s_cid}.html",
			SortURL:      "/sort/{code}/{page}/",
			RankURL:      "/rank/{code}/",
			AuthorURL:    "/author/{name}",
			IndexListURL: "/index/{id}/{page}/",
			LangURL:      "/lang/{id}/",
			LangIndexURL: "/lang/{id}/{page}/",
		},
		SortArr: []Sort{{Code: "xuanhuan", Caption: "玄幻魔法"}, {Code: "wuxia", Caption: "武侠修真"}},
		Cache:   CacheTTL{Info: 600, Sort: 300, Other: 60},
		Search:  Search{Limit: 30, Min: 2, Time: 120},
	}
}

func TestURLTemplates(t *testing.T) {
	c := newTestConfig()

	assert.Equal(t, "/book/12/12345/", c.InfoURL(12345))
	assert.Equal(t, "/index/12345/3/", c.IndexURL(12345, 3))
	assert.Equal(t, "/read/12345/678.html", c.ReadURL(12345, 678, 1))
	assert.Equal(t, "/read/12345/678_2.html", c.ReadURL(12345, 678, 2))
	assert.Equal(t, "/sort/wuxia/4/", c.SortURL("wuxia", 2, 4))
	assert.Equal(t, "/rank/allvisit/", c.RankURL("allvisit"))
	assert.Equal(t, "/author/%E5%BC%A0%20%E4%B8%89", c.AuthorURL("张 三"))
	assert.Equal(t, "/lang/9/2/", c.LangIndexURL(9, 2))
}

func TestURLTemplates_PlaceholderVariants(t *testing.T) {
	c := newTestConfig()
	c.Rewrite.InfoURL = "/b/{short_id}-{id}-{id}.html"
	c.Rewrite.ChapterURL = "/r/{sid}/{id}/{cid}/{page}"

	assert.Equal(t, "/b/1-1001-1001.html", c.InfoURL(1001))
	assert.Equal(t, "/r/1/1001/5/3", c.ReadURL(1001, 5, 3))

	c.Rewrite.InfoURL = "/static-page"
	assert.Equal(t, "/static-page", c.InfoURL(1001), "模板可以不含任何占位符")
}

func TestImgURL(t *testing.T) {
	c := newTestConfig()
	assert.Equal(t, "https://img.example.com/12/12345/12345s.jpg", c.ImgURL(12345, true))
	assert.Equal(t, "/static/default/nocover.jpg", c.ImgURL(12345, false))
}

func TestSortName(t *testing.T) {
	c := newTestConfig()
	assert.Equal(t, "玄幻魔法", c.SortName(1))
	assert.Equal(t, "其它类型", c.SortName(0))
	assert.Equal(t, "其它类型", c.SortName(9))

	c.FallbackSortName = "未分类"
	assert.Equal(t, "未分类", c.SortName(9))

	id, ok := c.SortIDByCode("wuxia")
	assert.True(t, ok)
	assert.Equal(t, 2, id)
	_, ok = c.SortIDByCode("nope")
	assert.False(t, ok)
}

func TestTTL(t *testing.T) {
	c := newTestConfig()
	assert.Equal(t, 10*time.Minute, c.TTL(TTLInfo))
	assert.Equal(t, 2*time.Minute, c.TTL(TTLSearch))
	assert.Equal(t, time.Minute, c.TTL(TTLOther))
}

func TestValidate(t *testing.T) {
	require.NoError(t, newTestConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"表前缀含非法字符", func(c *Config) { c.Prefix = "jieqi_; DROP" }},
		{"分类每页数量为0", func(c *Config) { c.CategoryPerPage = 0 }},
		{"目录每页数量为0", func(c *Config) { c.IndexListNum = 0 }},
		{"分页模式非法", func(c *Config) { c.ReadPageSplitMode = 3 }},
		{"分页大小为0", func(c *Config) { c.ReadPageSplitLines = 0 }},
		{"乘法混淆值为0", func(c *Config) {
			c.IsMultiple = true
			c.ConfusionAlgorithm = "*"
			c.ConfusionValue = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestStore_Publish(t *testing.T) {
	first := newTestConfig()
	s := NewStore(first)
	assert.Same(t, first, s.Current())

	second := newTestConfig()
	second.SiteName = "新站"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				name := s.Current().SiteName
				if name != "测试站" && name != "新站" {
					t.Errorf("读到了不完整的配置: %q", name)
					return
				}
			}
		}()
	}
	s.Publish(second)
	wg.Wait()

	assert.Equal(t, "新站", s.Current().SiteName)
}
