// Package site 站点（租户）配置
//
// 设计说明：
// 1. Config是一份不可变快照：加载完成后只读，热更新时整份替换（见Store）
// 2. URL模板使用命名占位符，字面替换，模板可以省略任意占位符
// 3. 对外ID的生成不在这里，这里只负责把已经混淆好的ID填进模板
package site

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/novelsite/internal/domain/identity"
)

// 章节分页模式
const (
	SplitNone  = 0 // 不分页
	SplitLines = 1 // 按行数分页
	SplitChars = 2 // 按字数分页
)

const defaultFallbackSortName = "其它类型"

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Rewrite 各类页面的URL模板
//
// 可用占位符：
//   - {id}: 对外ID
//   - {sid} / {short_id}: 对外ID / 1000
//   - {cid}: 对外章节ID
//   - {s_cid}: 第一页为 cid，其余为 cid_page
//   - {page}: 页码
//   - {code}: 分类或排行代码
//   - {name}: 作者名（已URL编码）
type Rewrite struct {
	InfoURL      string `mapstructure:"info_url"`
	ChapterURL   string `mapstructure:"chapter_url"`
	SortURL      string `mapstructure:"sort_url"`
	TopURL       string `mapstructure:"top_url"`
	RankURL      string `mapstructure:"rank_url"`
	AuthorURL    string `mapstructure:"author_url"`
	IndexListURL string `mapstructure:"index_list_url"`
	SearchURL    string `mapstructure:"search_url"`
	LangURL      string `mapstructure:"lang_url"`
	LangIndexURL string `mapstructure:"lang_index_url"`
}

// Sort 分类，sortid 从1开始对应数组下标+1
type Sort struct {
	Code    string `mapstructure:"code" json:"code"`
	Caption string `mapstructure:"caption" json:"caption"`
}

// CacheTTL 各类资源的缓存时间（秒）
type CacheTTL struct {
	Home    int `mapstructure:"home"`
	Info    int `mapstructure:"info"`
	Chapter int `mapstructure:"chapter"`
	Sort    int `mapstructure:"sort"`
	Rank    int `mapstructure:"rank"`
	Other   int `mapstructure:"other"`
}

// Search 搜索配置
type Search struct {
	Limit int `mapstructure:"limit"` // 搜索结果数
	Min   int `mapstructure:"min"`   // 关键词最少字数
	Time  int `mapstructure:"time"`  // 缓存时间（秒）
	Delay int `mapstructure:"delay"` // -1 表示关闭搜索
}

// Config 站点配置快照
type Config struct {
	SiteName     string  `mapstructure:"site_name"`
	SiteURL      string  `mapstructure:"site_url"`
	TxtURL       string  `mapstructure:"txt_url"`
	SysVer       float64 `mapstructure:"sys_ver"`
	RemoteImgURL string  `mapstructure:"remote_img_url"`
	ThemeDir     string  `mapstructure:"theme_dir"`
	Is3in1       bool    `mapstructure:"is_3in1"`
	Prefix       string  `mapstructure:"prefix"`

	CategoryPerPage    int `mapstructure:"category_per_page"`
	IndexListNum       int `mapstructure:"index_list_num"`
	ReadPageSplitMode  int `mapstructure:"read_page_split_mode"`
	ReadPageSplitLines int `mapstructure:"read_page_split_lines"`

	Rewrite          Rewrite `mapstructure:"rewrite"`
	SortArr          []Sort  `mapstructure:"sort_arr"`
	FallbackSortName string  `mapstructure:"fallback_sort_name"`

	IsMultiple         bool   `mapstructure:"is_multiple"`
	ConfusionAlgorithm string `mapstructure:"confusion_algorithm"`
	ConfusionValue     uint64 `mapstructure:"confusion_value"`

	Cache  CacheTTL `mapstructure:"cache"`
	Search Search   `mapstructure:"search"`
	IsLang bool     `mapstructure:"is_lang"`
}

// Validate 校验配置，热更新时校验失败的配置不会被发布
func (c *Config) Validate() error {
	if !prefixPattern.MatchString(c.Prefix) {
		return fmt.Errorf("site.prefix 只能包含字母、数字和下划线: %q", c.Prefix)
	}
	if c.CategoryPerPage <= 0 {
		return fmt.Errorf("site.category_per_page 必须大于0")
	}
	if c.IndexListNum <= 0 {
		return fmt.Errorf("site.index_list_num 必须大于0")
	}
	switch c.ReadPageSplitMode {
	case SplitNone:
	case SplitLines, SplitChars:
		if c.ReadPageSplitLines <= 0 {
			return fmt.Errorf("site.read_page_split_lines 必须大于0")
		}
	default:
		return fmt.Errorf("site.read_page_split_mode 只能是0、1、2: %d", c.ReadPageSplitMode)
	}
	if c.IsMultiple && identity.ParseOperator(c.ConfusionAlgorithm) == identity.OpMultiply && c.ConfusionValue == 0 {
		return fmt.Errorf("site.confusion_value 乘法混淆时不能为0")
	}
	return nil
}

// Identity 当前配置对应的ID映射器
func (c *Config) Identity() identity.Mapper {
	return identity.NewMapper(c.IsMultiple, identity.ParseOperator(c.ConfusionAlgorithm), c.ConfusionValue)
}

// TTLClass 缓存时间分类
type TTLClass int

const (
	TTLHome TTLClass = iota
	TTLInfo
	TTLChapter
	TTLSort
	TTLRank
	TTLOther
	TTLSearch
)

// TTL 返回某一类资源的缓存时间
func (c *Config) TTL(class TTLClass) time.Duration {
	var sec int
	switch class {
	case TTLHome:
		sec = c.Cache.Home
	case TTLInfo:
		sec = c.Cache.Info
	case TTLChapter:
		sec = c.Cache.Chapter
	case TTLSort:
		sec = c.Cache.Sort
	case TTLRank:
		sec = c.Cache.Rank
	case TTLSearch:
		sec = c.Search.Time
	default:
		sec = c.Cache.Other
	}
	return time.Duration(sec) * time.Second
}

// ShortID 目录分组用的短ID
func ShortID(id uint64) uint64 {
	return id / 1000
}

func u(n uint64) string {
	return strconv.FormatUint(n, 10)
}

// InfoURL 详情页
func (c *Config) InfoURL(id uint64) string {
	return strings.NewReplacer(
		"{id}", u(id),
		"{sid}", u(ShortID(id)),
		"{short_id}", u(ShortID(id)),
	).Replace(c.Rewrite.InfoURL)
}

// IndexURL 章节目录分页
func (c *Config) IndexURL(id, page uint64) string {
	return strings.NewReplacer(
		"{id}", u(id),
		"{sid}", u(ShortID(id)),
		"{short_id}", u(ShortID(id)),
		"{page}", u(page),
	).Replace(c.Rewrite.IndexListURL)
}

// ReadURL 章节阅读页
func (c *Config) ReadURL(id, cid, page uint64) string {
	sCid := u(cid)
	if page > 1 {
		sCid = sCid + "_" + u(page)
	}
	return strings.NewReplacer(
		"{id}", u(id),
		"{sid}", u(ShortID(id)),
		"{short_id}", u(ShortID(id)),
		"{cid}", u(cid),
		"{s_cid}", sCid,
		"{page}", u(page),
	).Replace(c.Rewrite.ChapterURL)
}

// AuthorURL 作者页
func (c *Config) AuthorURL(name string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	return strings.ReplaceAll(c.Rewrite.AuthorURL, "{name}", encoded)
}

// SortURL 分类列表页，sortID 从1开始
func (c *Config) SortURL(code string, sortID int, page int) string {
	return strings.NewReplacer(
		"{code}", code,
		"{id}", strconv.Itoa(sortID),
		"{page}", strconv.Itoa(page),
	).Replace(c.Rewrite.SortURL)
}

// RankURL 排行榜页
func (c *Config) RankURL(code string) string {
	return strings.ReplaceAll(c.Rewrite.RankURL, "{code}", code)
}

// LangInfoURL 长尾词详情页
func (c *Config) LangInfoURL(id uint64) string {
	return strings.NewReplacer(
		"{id}", u(id),
		"{sid}", u(ShortID(id)),
		"{short_id}", u(ShortID(id)),
	).Replace(c.Rewrite.LangURL)
}

// LangIndexURL 长尾词目录页
func (c *Config) LangIndexURL(id, page uint64) string {
	return strings.NewReplacer(
		"{id}", u(id),
		"{sid}", u(ShortID(id)),
		"{short_id}", u(ShortID(id)),
		"{page}", u(page),
	).Replace(c.Rewrite.LangIndexURL)
}

// ImgURL 封面地址，使用内部ID定位文件
func (c *Config) ImgURL(sourceID uint64, hasImage bool) string {
	if hasImage {
		return fmt.Sprintf("%s/%d/%d/%ds.jpg", c.RemoteImgURL, ShortID(sourceID), sourceID, sourceID)
	}
	return fmt.Sprintf("/static/%s/nocover.jpg", c.ThemeDir)
}

// SortName 分类名称，未知分类返回兜底名称
func (c *Config) SortName(sortID int) string {
	if s, ok := c.SortByID(sortID); ok {
		return s.Caption
	}
	if c.FallbackSortName != "" {
		return c.FallbackSortName
	}
	return defaultFallbackSortName
}

// SortByID 按sortid（从1开始）取分类
func (c *Config) SortByID(sortID int) (Sort, bool) {
	if sortID < 1 || sortID > len(c.SortArr) {
		return Sort{}, false
	}
	return c.SortArr[sortID-1], true
}

// SortIDByCode 按分类代码取sortid
func (c *Config) SortIDByCode(code string) (int, bool) {
	for i, s := range c.SortArr {
		if s.Code == code {
			return i + 1, true
		}
	}
	return 0, false
}
