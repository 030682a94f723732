package controller

import (
	"errors"
	"io"
	"net/http"

	"study_buddy_backend/internal/service"
	"study_buddy_backend/internal/util"
	"study_buddy_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

type documentRequest struct {
	Content string `json:"content" binding:"required"`
	Format  string `json:"format"`
}

// Generate godoc
// @Summary 生成学习文档
// @Description 把笔记内容渲染成 PDF 或 DOCX 并返回下载地址
// @Tags AI助手
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body documentRequest true "文档内容与格式"
// @Success 200 {object} util.Response "下载地址"
// @Failure 400 {object} util.Response "内容缺失或格式不支持"
// @Router /ai/documents [post]
func (c *DocumentController) Generate(ctx *gin.Context) {
	var req documentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Content is required")
		return
	}
	if req.Format == "" {
		req.Format = "pdf"
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	downloadURL, err := c.DocumentService.Generate(ctx.Request.Context(), req.Content, req.Format, claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			util.BadRequest(ctx, "Unsupported format. Please choose 'pdf' or 'docx'.")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"download_url": downloadURL})
}

// Download godoc
// @Summary 下载生成的文档
// @Description 按文件名流式返回之前生成的文档
// @Tags AI助手
// @Produce octet-stream
// @Security BearerAuth
// @Param filename path string true "文件名"
// @Success 200 {file} binary "文档内容"
// @Failure 404 {object} util.Response "文件不存在"
// @Router /ai/documents/download/{filename} [get]
func (c *DocumentController) Download(ctx *gin.Context) {
	filename := ctx.Param("filename")

	reader, contentType, err := c.DocumentService.Open(ctx.Request.Context(), filename)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	defer reader.Close()

	ctx.Header("Content-Type", contentType)
	ctx.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	ctx.Status(http.StatusOK)
	if _, err := io.Copy(ctx.Writer, reader); err != nil {
		logger.Log.Warn("Document stream interrupted", zap.String("filename", filename), zap.Error(err))
	}
}
