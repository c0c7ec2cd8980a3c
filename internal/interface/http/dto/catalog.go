package dto

import (
	"strconv"
	"strings"
)

// 路径参数
// 说明：ID类参数按字符串绑定，兼容伪静态链接里的".html"后缀，
// 解析失败在Handler里统一映射为"不存在"

// NovelURI 小说路径参数
type NovelURI struct {
	ID string `uri:"id" binding:"required"`
}

// ChapterURI 章节路径参数，cid 支持 "123" 或 "123_2"（章节内第2页）
type ChapterURI struct {
	ID  string `uri:"id" binding:"required"`
	CID string `uri:"cid" binding:"required"`
}

// SortURI 分类路径参数，sort 可以是数字ID或分类代码
type SortURI struct {
	Sort string `uri:"sort" binding:"required,max=64"`
}

// RankURI 排行榜路径参数
type RankURI struct {
	Code string `uri:"code" binding:"required,max=64"`
}

// AuthorURI 作者路径参数
type AuthorURI struct {
	Name string `uri:"name" binding:"required,max=100"`
}

// PageQuery 分页参数，缺省为第1页
type PageQuery struct {
	Page int `form:"page" binding:"omitempty,min=1" example:"1"`
}

// SearchQuery 搜索参数
// 空关键词不在这里拦截，交给用例按站点的最小长度判断
type SearchQuery struct {
	Keyword string `form:"q" binding:"max=100" example:"斗破"`
}

// ParseID 解析对外ID，允许".html"后缀
func ParseID(raw string) (uint64, bool) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ".html")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// ParseChapterRef 解析章节引用 "cid" 或 "cid_page"
// 没有页码后缀或后缀为0时返回page=0，由调用方决定默认页（最终按第1页处理）
func ParseChapterRef(raw string) (cid uint64, page int, ok bool) {
	raw = strings.TrimSuffix(strings.TrimSpace(raw), ".html")
	idPart, pagePart, hasPage := strings.Cut(raw, "_")

	cid, ok = ParseID(idPart)
	if !ok {
		return 0, 0, false
	}
	if !hasPage {
		return cid, 0, true
	}
	page, err := strconv.Atoi(pagePart)
	if err != nil || page < 0 {
		return 0, 0, false
	}
	return cid, page, true
}
