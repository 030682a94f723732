package controller

import (
	"net/http"
	"strconv"

	"study_buddy_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Generate godoc
// @Summary 生成测验题
// @Description 按主题调用大模型生成选择题和简答题
// @Tags AI助手
// @Produce json
// @Security BearerAuth
// @Param userId path int true "用户ID"
// @Param topic query string true "测验主题"
// @Param num query int false "题目数量" default(5)
// @Success 200 {object} map[string]interface{} "题目集合"
// @Failure 400 {object} map[string]interface{} "缺少主题参数"
// @Router /ai/quiz/{userId} [post]
func (c *QuizController) Generate(ctx *gin.Context) {
	topic := ctx.Query("topic")
	if topic == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Topic parameter is required."})
		return
	}

	count := 5
	if raw := ctx.Query("num"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}

	questions := c.QuizService.GenerateQuestions(topic, count)
	ctx.JSON(http.StatusOK, gin.H{"questions": questions})
}
