package controller

import (
	"study_buddy_backend/internal/service"
	"study_buddy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type JobController struct {
	JobService *service.JobService
}

func NewJobController(jobService *service.JobService) *JobController {
	return &JobController{JobService: jobService}
}

// Listings godoc
// @Summary 匹配职位列表
// @Description 按技能和地点从 Adzuna 拉取匹配的职位
// @Tags AI助手
// @Produce json
// @Security BearerAuth
// @Param skills query string true "技能，逗号分隔"
// @Param location query string false "期望地点"
// @Success 200 {object} util.Response "职位列表"
// @Failure 400 {object} util.Response "缺少技能参数"
// @Router /ai/jobs [get]
func (c *JobController) Listings(ctx *gin.Context) {
	skills := ctx.Query("skills")
	if skills == "" {
		util.BadRequest(ctx, "Skills parameter is required")
		return
	}

	listings, err := c.JobService.Listings(skills, ctx.Query("location"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"listings": listings})
}
