package textutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, `a &amp; b &lt;i&gt; "引号" 'x'`, EscapeHTML(`a & b <i> "引号" 'x'`))
}

func TestParagraphs(t *testing.T) {
	got := Paragraphs([]string{"　　第一行", "", "   ", "第二行\t内容", "a    b"})
	assert.Equal(t, "<p> 第一行</p><p>第二行\t内容</p><p>a b</p>", got)
}

func TestCollapseSpaces(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"单个制表符保留", "a\tb", "a\tb"},
		{"单个全角空格保留", "a　b", "a　b"},
		{"连续全角空格", "a　　b", "a b"},
		{"全角半角混合", "a　 \tb", "a b"},
		{"连续换行", "a\n\nb", "a b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollapseSpaces(tt.in))
		})
	}
}

func TestNormalizeBreaks(t *testing.T) {
	in := "一<br>二<br/>三<br />四<BR class=\"x\">五"
	assert.Equal(t, "一\n二\n三\n四\n五", NormalizeBreaks(in))
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitLines("a\r\nb\nc\n"))
	assert.Equal(t, []string{""}, SplitLines(""))
}

func TestExcerpt(t *testing.T) {
	t.Run("超长截断", func(t *testing.T) {
		text := strings.Repeat("字", 300)
		got := Excerpt(text, 200)
		assert.Equal(t, 200, len([]rune(got)))
	})

	t.Run("转义并压缩空白", func(t *testing.T) {
		assert.Equal(t, "&lt;b&gt; 简介", Excerpt("<b>\n\n  简介  ", 200))
	})

	t.Run("短文本原样返回", func(t *testing.T) {
		assert.Equal(t, "短", Excerpt("短", 200))
	})
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	base := now.Unix()

	tests := []struct {
		name string
		ts   int64
		want string
	}{
		{"90秒前", base - 90, "刚刚"},
		{"未来时间按现在处理", base + 3600, "刚刚"},
		{"10分钟前", base - 600, "10分钟前"},
		{"5小时前", base - 3600*5, "5小时前"},
		{"3天前", base - 86400*3, "3天前"},
		{"2个月前", base - 86400*61, "2个月前"},
		{"超过一年显示日期", base - 86400*400, "2025-03-27"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.ts, now))
		})
	}
}
