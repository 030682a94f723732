package controller

import (
	"errors"

	"study_buddy_backend/internal/model"
	"study_buddy_backend/internal/service"
	"study_buddy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// swagger:model SignupRequest
type SignupRequest struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Signup godoc
// @Summary 注册新用户
// @Description 使用本地凭证注册，成功后直接返回访问令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SignupRequest true "用户注册信息"
// @Success 201 {object} map[string]interface{} "创建成功"
// @Failure 400 {object} map[string]interface{} "请求参数错误"
// @Failure 409 {object} map[string]interface{} "用户名或邮箱已被注册"
// @Router /user/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	user := &model.User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	token, err := c.AuthService.Register(user)
	if err != nil {
		if errors.Is(err, util.ErrUserExists) {
			ctx.JSON(409, gin.H{"error": "User with this username or email already exists"})
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.JSON(201, gin.H{
		"message":      "User registered successfully",
		"access_token": token,
		"userId":       user.ID,
	})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 用户登录
// @Description 标识可以是邮箱或用户名
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭证"
// @Success 200 {object} map[string]interface{} "登录成功"
// @Failure 401 {object} map[string]interface{} "凭证无效"
// @Router /user/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"msg": "Missing identifier or password"})
		return
	}

	token, userID, err := c.AuthService.Login(req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			ctx.JSON(401, gin.H{"msg": "Invalid identifier or password"})
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.JSON(200, gin.H{"access_token": token, "userId": userID})
}

// Logout godoc
// @Summary 用户登出
// @Description 令牌为无状态 JWT，登出仅记录日志
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "登出成功"
// @Router /user/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"msg": "Logout successful"})
}

type ResetRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestReset godoc
// @Summary 请求重置密码
// @Description 给已注册邮箱发送重置链接
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetRequestBody true "邮箱"
// @Success 200 {object} map[string]interface{} "已发送"
// @Failure 404 {object} map[string]interface{} "邮箱未注册"
// @Router /user/request_reset [post]
func (c *AuthController) RequestReset(ctx *gin.Context) {
	var req ResetRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": "Email is required"})
		return
	}

	if err := c.AuthService.RequestPasswordReset(req.Email); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			ctx.JSON(404, gin.H{"error": "No user found with that email"})
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.JSON(200, gin.H{"message": "Password reset email sent"})
}

type ResetPasswordBody struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary 重置密码
// @Description 校验重置令牌并设置新口令
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ResetPasswordBody true "令牌和新口令"
// @Success 200 {object} map[string]interface{} "重置成功"
// @Failure 400 {object} map[string]interface{} "令牌无效或过期"
// @Router /user/reset_password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if err := c.AuthService.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, util.ErrResetTokenInvalid) {
			ctx.JSON(400, gin.H{"error": "Invalid or expired reset token"})
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.JSON(200, gin.H{"message": "Password has been reset"})
}
