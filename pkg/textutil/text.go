// Package textutil 小说文本的展示处理
//
// 包含：
// 1. HTML转义（只转义 & < >，引号保持原样，正文里大量中文引号不受影响）
// 2. 段落包装（逐行包 <p>，跳过空行，连续空白压成一个空格）
// 3. 简介截断（列表页使用的固定字数简介）
// 4. 中文相对时间（刚刚 / N分钟前 / N小时前 / N天前 / N个月前 / 日期）
package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// 两个及以上连续空白（含全角空格），或单个制表符
var spaceRun = regexp.MustCompile(`[\s\x{3000}]{2,}`)

// <br>、<br/>、<br />、<BR class="x"> 等换行标签
var brTag = regexp.MustCompile(`(?i)<br(\s+[^>]*?)?\s*/?>`)

// EscapeHTML 转义 & < >
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// CollapseSpaces 把两个及以上的连续空白（含全角空格）压缩成一个半角空格，单个空白保留
func CollapseSpaces(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

// NormalizeBreaks 把 <br> 标签统一替换成换行符
func NormalizeBreaks(s string) string {
	return brTag.ReplaceAllString(s, "\n")
}

// SplitLines 按换行切分，兼容 \r\n，忽略末尾的换行
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	return strings.Split(text, "\n")
}

// Paragraphs 每个非空行包成一个 <p>
//
// 注意：这里不做转义，调用方决定是否先 EscapeHTML
func Paragraphs(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		line = CollapseSpaces(line)
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(line)
		b.WriteString("</p>")
	}
	return b.String()
}

// Excerpt 转义并压缩空白后截取前 limit 个字符
func Excerpt(text string, limit int) string {
	s := CollapseSpaces(EscapeHTML(text))
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

const (
	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	month  = 30 * day
	year   = 365 * day
)

// RelativeTime 把unix时间戳格式化为中文相对时间
//
// 未来时间按"现在"处理，超过一年显示 UTC 日期
func RelativeTime(ts int64, now time.Time) string {
	diff := now.Unix() - ts
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < 2*minute:
		return "刚刚"
	case diff < hour:
		return fmt.Sprintf("%d分钟前", diff/minute)
	case diff < day:
		return fmt.Sprintf("%d小时前", diff/hour)
	case diff < month:
		return fmt.Sprintf("%d天前", diff/day)
	case diff < year:
		return fmt.Sprintf("%d个月前", diff/month)
	default:
		return time.Unix(ts, 0).UTC().Format("2006-01-02")
	}
}
