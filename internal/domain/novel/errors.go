package novel

import (
	apperrors "github.com/xiebiao/novelsite/pkg/errors"
)

// 小说领域错误定义
var (
	// ErrNovelNotFound 小说不存在（包括ID无法还原的情况）
	ErrNovelNotFound = apperrors.New(apperrors.ErrCodeNovelNotFound, "小说不存在")

	// ErrChapterNotFound 章节不存在
	ErrChapterNotFound = apperrors.New(apperrors.ErrCodeChapterNotFound, "章节不存在")

	// ErrPageOutOfRange 页码超出范围
	ErrPageOutOfRange = apperrors.New(apperrors.ErrCodePageOutOfRange, "页码超出范围")

	// ErrSortNotFound 分类不存在
	ErrSortNotFound = apperrors.New(apperrors.ErrCodeSortNotFound, "分类不存在")

	// ErrRankNotFound 排行榜不存在
	ErrRankNotFound = apperrors.New(apperrors.ErrCodeNotFound, "排行榜不存在")

	// ErrLangTailNotFound 长尾词不存在
	ErrLangTailNotFound = apperrors.New(apperrors.ErrCodeNotFound, "长尾词不存在")

	// ErrSearchDisabled 搜索功能已关闭
	ErrSearchDisabled = apperrors.New(apperrors.ErrCodeSearchDisabled, "搜索功能已关闭")

	// ErrKeywordTooShort 搜索关键词过短
	ErrKeywordTooShort = apperrors.New(apperrors.ErrCodeKeywordTooShort, "搜索关键词过短")
)
