package controller

import (
	"study_buddy_backend/internal/service"
	"study_buddy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	SearchService *service.SearchService
}

func NewSearchController(searchService *service.SearchService) *SearchController {
	return &SearchController{SearchService: searchService}
}

// Google godoc
// @Summary 谷歌搜索
// @Description 通过 Google Custom Search 检索学习资料
// @Tags AI助手
// @Produce json
// @Security BearerAuth
// @Param query query string true "搜索关键词"
// @Success 200 {object} util.Response "搜索结果"
// @Failure 400 {object} util.Response "缺少关键词"
// @Router /ai/search/google [get]
func (c *SearchController) Google(ctx *gin.Context) {
	query := ctx.Query("query")
	if query == "" {
		util.BadRequest(ctx, "Query parameter is required")
		return
	}

	results, err := c.SearchService.Google(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"results": results})
}

// Bing godoc
// @Summary 必应搜索
// @Description 通过 Bing Web Search 检索学习资料
// @Tags AI助手
// @Produce json
// @Security BearerAuth
// @Param query query string true "搜索关键词"
// @Success 200 {object} util.Response "搜索结果"
// @Failure 400 {object} util.Response "缺少关键词"
// @Router /ai/search/bing [get]
func (c *SearchController) Bing(ctx *gin.Context) {
	query := ctx.Query("query")
	if query == "" {
		util.BadRequest(ctx, "Query parameter is required")
		return
	}

	results, err := c.SearchService.Bing(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"results": results})
}

// YouTube godoc
// @Summary 视频搜索
// @Description 通过 YouTube Data API 检索教学视频
// @Tags AI助手
// @Produce json
// @Security BearerAuth
// @Param query query string true "搜索关键词"
// @Success 200 {object} util.Response "搜索结果"
// @Failure 400 {object} util.Response "缺少关键词"
// @Router /ai/search/youtube [get]
func (c *SearchController) YouTube(ctx *gin.Context) {
	query := ctx.Query("query")
	if query == "" {
		util.BadRequest(ctx, "Query parameter is required")
		return
	}

	results, err := c.SearchService.YouTube(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"results": results})
}
