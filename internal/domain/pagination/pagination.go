// Package pagination 章节正文分页与列表跳页窗口
//
// 设计说明：
// 1. 分页结果不单独缓存，每次请求基于(可能已缓存的)正文重新切分
// 2. 请求页码超过总页数一律返回ErrPageOutOfRange，不会夹到最后一页
// 3. 页码0按第1页处理
package pagination

import (
	"errors"

	"github.com/rivo/uniseg"

	"github.com/xiebiao/novelsite/pkg/textutil"
)

var (
	// ErrPageOutOfRange 请求页码超出总页数
	ErrPageOutOfRange = errors.New("pagination: page out of range")

	// ErrInvalidPageSize 每页大小必须大于0
	ErrInvalidPageSize = errors.New("pagination: page size must be positive")
)

// 跳页窗口：当前页前后各5页
const windowRadius = 5

// 分页模式，与站点配置 read_page_split_mode 一致
const (
	ModeNone  = 0
	ModeLines = 1
	ModeChars = 2
)

// Normalize 页码小于1时按第1页处理
func Normalize(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func ceilDiv(n, size int) int {
	return (n + size - 1) / size
}

// SplitByLines 按行数分页
//
// 先转义 & < >，再按换行切分；返回当前页HTML和总页数
func SplitByLines(text string, linesPerPage, page int) (string, int, error) {
	if linesPerPage <= 0 {
		return "", 0, ErrInvalidPageSize
	}
	page = Normalize(page)

	lines := textutil.SplitLines(textutil.EscapeHTML(text))
	total := ceilDiv(len(lines), linesPerPage)
	if page > total {
		return "", total, ErrPageOutOfRange
	}

	start := (page - 1) * linesPerPage
	end := min(start+linesPerPage, len(lines))
	return textutil.Paragraphs(lines[start:end]), total, nil
}

// SplitByChars 按字数分页，字数以字素簇计
func SplitByChars(text string, charsPerPage, page int) (string, int, error) {
	if charsPerPage <= 0 {
		return "", 0, ErrInvalidPageSize
	}
	page = Normalize(page)

	offsets := graphemeOffsets(text)
	count := len(offsets) - 1
	total := ceilDiv(count, charsPerPage)
	if page > total {
		return "", total, ErrPageOutOfRange
	}

	start := (page - 1) * charsPerPage
	end := min(start+charsPerPage, count)
	slice := text[offsets[start]:offsets[end]]
	return textutil.Paragraphs(textutil.SplitLines(textutil.EscapeHTML(slice))), total, nil
}

// graphemeOffsets 返回每个字素簇的起始字节位置，末尾追加len(s)
func graphemeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)/3+1)
	rest := s
	state := -1
	for len(rest) > 0 {
		offsets = append(offsets, len(s)-len(rest))
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	return append(offsets, len(s))
}

// GraphemeCount 字素簇数量（用户感知的字符数）
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// JumpWindow 列表页的跳页窗口
//
// 最多11个连续页码，以当前页为中心，越界时整体平移到[1, total]内
func JumpWindow(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	start := max(current-windowRadius, 1)
	end := start + 2*windowRadius
	if end > total {
		end = total
		start = max(end-2*windowRadius, 1)
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Window 章节正文的一页
type Window struct {
	Content    string `json:"content"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	PrevURL    string `json:"prev_page_url"`
	NextURL    string `json:"next_page_url"`
}

// Paginate 按模式切分正文并生成前后页链接
//
// 按行模式下行数不超过每页行数时不分页；urlFor 根据页码生成阅读链接
func Paginate(text string, mode, size, page int, urlFor func(page int) string) (Window, error) {
	page = Normalize(page)

	var (
		content string
		total   int
		err     error
	)
	switch mode {
	case ModeLines:
		if len(textutil.SplitLines(text)) > size {
			content, total, err = SplitByLines(text, size, page)
		} else {
			content, total = wholeText(text), 1
		}
	case ModeChars:
		content, total, err = SplitByChars(text, size, page)
	default:
		content, total = wholeText(text), 1
	}
	if err != nil {
		return Window{}, err
	}
	if page > total {
		return Window{}, ErrPageOutOfRange
	}

	w := Window{Content: content, Page: page, TotalPages: total}
	if page > 1 {
		w.PrevURL = urlFor(page - 1)
	}
	if page < total {
		w.NextURL = urlFor(page + 1)
	}
	return w, nil
}

func wholeText(text string) string {
	return textutil.Paragraphs(textutil.SplitLines(textutil.EscapeHTML(text)))
}

// PageCount 列表总页数，至少为1
func PageCount(count int64, perPage int) int {
	if perPage <= 0 || count <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// Offset 列表第page页的偏移量
func Offset(page, perPage int) int {
	return (Normalize(page) - 1) * perPage
}
