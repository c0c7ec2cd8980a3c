package langtail

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Engine 搜索联想接口：URL模板 + 提取联想词的正则（第一个分组）
type Engine struct {
	Name     string
	Template string // 含一个 %s，填入URL编码后的书名
	Pattern  *regexp.Regexp
}

// DefaultEngines 360、必应、头条、百度
var DefaultEngines = []Engine{
	{
		Name:     "360",
		Template: "https://sug.so.360.cn/suggest?encodein=utf-8&encodeout=utf-8&format=json&word=%s",
		Pattern:  regexp.MustCompile(`"word":"([^"]+)"`),
	},
	{
		Name:     "bing",
		Template: "https://api.bing.com/qsonhs.aspx?type=cb&q=%s",
		Pattern:  regexp.MustCompile(`"Txt":"([^"]+)"`),
	},
	{
		Name:     "toutiao",
		Template: "https://so.toutiao.com/2/article/search_sug/?keyword=%s",
		Pattern:  regexp.MustCompile(`"keyword":"([^"]+)"`),
	},
	{
		Name:     "baidu",
		Template: "https://www.baidu.com/sugrec?prod=pc&wd=%s",
		Pattern:  regexp.MustCompile(`"q":"([^"]+)"`),
	},
}

// URL 生成查询地址
func (e Engine) URL(keyword string) string {
	return fmt.Sprintf(e.Template, url.QueryEscape(keyword))
}

// Extract 从响应中提取联想词，\uXXXX 转义会被还原
func (e Engine) Extract(body []byte) []string {
	matches := e.Pattern.FindAllSubmatch(body, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		word := string(m[1])
		if unquoted, err := strconv.Unquote(`"` + word + `"`); err == nil {
			word = unquoted
		}
		word = strings.TrimSpace(word)
		if word != "" {
			out = append(out, word)
		}
	}
	return out
}
