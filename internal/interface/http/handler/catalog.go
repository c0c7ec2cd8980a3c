package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/novelsite/internal/application/catalog"
	"github.com/xiebiao/novelsite/internal/domain/novel"
	"github.com/xiebiao/novelsite/internal/interface/http/dto"
	"github.com/xiebiao/novelsite/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/novelsite/pkg/errors"
	"github.com/xiebiao/novelsite/pkg/response"
)

// 各用例的最小接口，Handler只依赖Execute
type (
	infoGetter interface {
		Execute(ctx context.Context, req catalog.GetInfoRequest) (*catalog.Info, error)
	}
	indexLister interface {
		Execute(ctx context.Context, req catalog.IndexListRequest) (*catalog.IndexListResponse, error)
	}
	chapterReader interface {
		Execute(ctx context.Context, req catalog.ReadChapterRequest) (*catalog.ReadChapterResponse, error)
	}
	categoryLister interface {
		Execute(ctx context.Context, req catalog.ListCategoryRequest) (*catalog.ListCategoryResponse, error)
	}
	ranker interface {
		Execute(ctx context.Context, req catalog.RankRequest) (*catalog.RankResponse, error)
	}
	authorLister interface {
		Execute(ctx context.Context, req catalog.ByAuthorRequest) (*catalog.ByAuthorResponse, error)
	}
	searcher interface {
		Execute(ctx context.Context, req catalog.SearchRequest) (*catalog.SearchResponse, error)
	}
	langTailGetter interface {
		Execute(ctx context.Context, req catalog.GetLangTailRequest) (*catalog.LangTailResponse, error)
	}
)

// CatalogUseCases 目录相关用例集合
type CatalogUseCases struct {
	GetInfo      infoGetter
	IndexList    indexLister
	ReadChapter  chapterReader
	ListCategory categoryLister
	Rank         ranker
	ByAuthor     authorLister
	Search       searcher
	GetLangTail  langTailGetter
}

// CatalogHandler 小说目录HTTP处理器
// 所有接口只读；站点由Host决定（见middleware.ResolveHost）
type CatalogHandler struct {
	uc CatalogUseCases
}

// NewCatalogHandler 创建目录处理器
func NewCatalogHandler(uc CatalogUseCases) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// GetInfo 小说详情
// @Summary  小说详情
// @Tags     小说
// @Produce  json
// @Param    id path string true "小说ID"
// @Success  200 {object} response.Response{data=catalog.Info}
// @Failure  404 {object} response.Response "小说不存在"
// @Router   /api/v1/books/{id} [get]
func (h *CatalogHandler) GetInfo(c *gin.Context) {
	id, ok := h.novelID(c)
	if !ok {
		return
	}

	result, err := h.uc.GetInfo.Execute(c.Request.Context(), catalog.GetInfoRequest{
		Host: middleware.GetHost(c),
		ID:   id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// IndexList 章节目录分页
// @Summary  章节目录
// @Tags     小说
// @Produce  json
// @Param    id   path  string true  "小说ID"
// @Param    page query int    false "页码"
// @Success  200 {object} response.Response{data=catalog.IndexListResponse}
// @Router   /api/v1/books/{id}/chapters [get]
func (h *CatalogHandler) IndexList(c *gin.Context) {
	id, ok := h.novelID(c)
	if !ok {
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	result, err := h.uc.IndexList.Execute(c.Request.Context(), catalog.IndexListRequest{
		Host: middleware.GetHost(c),
		ID:   id,
		Page: page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ReadChapter 章节阅读
// cid 形如 "5001" 或 "5001_2"；后缀页码优先于 ?page
// @Summary  章节阅读
// @Tags     小说
// @Produce  json
// @Param    id   path  string true  "小说ID"
// @Param    cid  path  string true  "章节ID"
// @Param    page query int    false "页码"
// @Success  200 {object} response.Response{data=catalog.ReadChapterResponse}
// @Router   /api/v1/books/{id}/chapters/{cid} [get]
func (h *CatalogHandler) ReadChapter(c *gin.Context) {
	var uri dto.ChapterURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, novel.ErrChapterNotFound)
		return
	}
	id, ok := dto.ParseID(uri.ID)
	if !ok {
		response.Error(c, novel.ErrNovelNotFound)
		return
	}
	cid, page, ok := dto.ParseChapterRef(uri.CID)
	if !ok {
		response.Error(c, novel.ErrChapterNotFound)
		return
	}
	if page == 0 {
		if page, ok = bindPage(c); !ok {
			return
		}
	}

	result, err := h.uc.ReadChapter.Execute(c.Request.Context(), catalog.ReadChapterRequest{
		Host:      middleware.GetHost(c),
		ID:        id,
		ChapterID: cid,
		Page:      page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListCategory 分类列表
// @Summary  分类列表
// @Tags     列表
// @Produce  json
// @Param    sort path  string true  "分类ID或代码"
// @Param    page query int    false "页码"
// @Success  200 {object} response.Response{data=catalog.ListCategoryResponse}
// @Router   /api/v1/sorts/{sort} [get]
func (h *CatalogHandler) ListCategory(c *gin.Context) {
	var uri dto.SortURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, novel.ErrSortNotFound)
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}

	result, err := h.uc.ListCategory.Execute(c.Request.Context(), catalog.ListCategoryRequest{
		Host: middleware.GetHost(c),
		Sort: uri.Sort,
		Page: page,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Rank 排行榜
// @Summary  排行榜
// @Tags     列表
// @Produce  json
// @Param    code path string true "排行榜代码"
// @Success  200 {object} response.Response{data=catalog.RankResponse}
// @Router   /api/v1/ranks/{code} [get]
func (h *CatalogHandler) Rank(c *gin.Context) {
	var uri dto.RankURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, novel.ErrRankNotFound)
		return
	}

	result, err := h.uc.Rank.Execute(c.Request.Context(), catalog.RankRequest{
		Host: middleware.GetHost(c),
		Code: uri.Code,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ByAuthor 作者作品
// @Summary  作者作品
// @Tags     列表
// @Produce  json
// @Param    name path string true "作者名"
// @Success  200 {object} response.Response{data=catalog.ByAuthorResponse}
// @Router   /api/v1/authors/{name} [get]
func (h *CatalogHandler) ByAuthor(c *gin.Context) {
	var uri dto.AuthorURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.uc.ByAuthor.Execute(c.Request.Context(), catalog.ByAuthorRequest{
		Host:   middleware.GetHost(c),
		Author: uri.Name,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Search 搜索
// 没有匹配结果时返回随机推荐，recommended=true
// @Summary  搜索
// @Tags     列表
// @Produce  json
// @Param    q query string true "关键词"
// @Success  200 {object} response.Response{data=catalog.SearchResponse}
// @Failure  400 {object} response.Response "关键词过短或搜索已关闭"
// @Router   /api/v1/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return
	}

	result, err := h.uc.Search.Execute(c.Request.Context(), catalog.SearchRequest{
		Host:    middleware.GetHost(c),
		Keyword: query.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetLangTail 长尾词页
// @Summary  长尾词页
// @Tags     小说
// @Produce  json
// @Param    id path string true "长尾词ID"
// @Success  200 {object} response.Response{data=catalog.LangTailResponse}
// @Router   /api/v1/langs/{id} [get]
func (h *CatalogHandler) GetLangTail(c *gin.Context) {
	var uri dto.NovelURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, novel.ErrLangTailNotFound)
		return
	}
	id, ok := dto.ParseID(uri.ID)
	if !ok {
		response.Error(c, novel.ErrLangTailNotFound)
		return
	}

	result, err := h.uc.GetLangTail.Execute(c.Request.Context(), catalog.GetLangTailRequest{
		Host: middleware.GetHost(c),
		ID:   id,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// novelID 绑定并解析小说ID，失败时已写出404响应
func (h *CatalogHandler) novelID(c *gin.Context) (uint64, bool) {
	var uri dto.NovelURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, novel.ErrNovelNotFound)
		return 0, false
	}
	id, ok := dto.ParseID(uri.ID)
	if !ok {
		response.Error(c, novel.ErrNovelNotFound)
		return 0, false
	}
	return id, true
}

// bindPage 绑定 ?page，失败时已写出400响应
func bindPage(c *gin.Context) (int, bool) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "参数错误: "+err.Error())
		return 0, false
	}
	return query.Page, true
}
