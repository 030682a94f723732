package controller

import (
	"study_buddy_backend/internal/service"
	"study_buddy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SuggestionController struct {
	SuggestionService *service.SuggestionService
}

func NewSuggestionController(suggestionService *service.SuggestionService) *SuggestionController {
	return &SuggestionController{SuggestionService: suggestionService}
}

type suggestionRequest struct {
	Mood      string `json:"mood" binding:"required"`
	UserInput string `json:"user_input" binding:"required"`
}

// Generate godoc
// @Summary 生成个性化建议
// @Description 结合情绪和输入的情感倾向，生成活动与调节建议
// @Tags AI助手
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body suggestionRequest true "情绪与输入"
// @Success 200 {object} util.Response "建议列表"
// @Failure 400 {object} util.Response "参数错误"
// @Router /ai/suggestions [post]
func (c *SuggestionController) Generate(ctx *gin.Context) {
	var req suggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Mood and user_input are required")
		return
	}

	suggestions, err := c.SuggestionService.Generate(req.Mood, req.UserInput)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"suggestions": suggestions})
}
