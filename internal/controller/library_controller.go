package controller

import (
	"study_buddy_backend/internal/service"
	"study_buddy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LibraryController struct {
	LibraryService *service.LibraryService
}

func NewLibraryController(libraryService *service.LibraryService) *LibraryController {
	return &LibraryController{LibraryService: libraryService}
}

// OpenLibrary godoc
// @Summary 检索公版教材
// @Description 通过 Open Library 查找带全文的教材并附下载链接
// @Tags AI助手
// @Produce json
// @Security BearerAuth
// @Param query query string true "教材关键词"
// @Success 200 {object} util.Response "教材列表"
// @Failure 400 {object} util.Response "缺少关键词"
// @Router /ai/library/openlibrary [get]
func (c *LibraryController) OpenLibrary(ctx *gin.Context) {
	query := ctx.Query("query")
	if query == "" {
		util.BadRequest(ctx, "Query parameter is required")
		return
	}

	textbooks, err := c.LibraryService.OpenLibraryTextbooks(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"textbooks": textbooks})
}

// Gutendex godoc
// @Summary 检索古腾堡书目
// @Description 通过 Gutendex 查找公版书并附各格式链接
// @Tags AI助手
// @Produce json
// @Security BearerAuth
// @Param query query string true "书目关键词"
// @Success 200 {object} util.Response "书目列表"
// @Failure 400 {object} util.Response "缺少关键词"
// @Router /ai/library/gutendex [get]
func (c *LibraryController) Gutendex(ctx *gin.Context) {
	query := ctx.Query("query")
	if query == "" {
		util.BadRequest(ctx, "Query parameter is required")
		return
	}

	textbooks, err := c.LibraryService.GutendexTextbooks(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"textbooks": textbooks})
}
