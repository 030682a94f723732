package controller

import (
	"errors"
	"fmt"
	"net/http"

	"study_buddy_backend/internal/service"
	"study_buddy_backend/internal/util"
	"study_buddy_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionCookie 标识浏览器会话，nonce 以它为键存取
const sessionCookie = "sb_session"

type OAuthController struct {
	OAuthService    *service.OAuthService
	FrontendBaseURL string
}

func NewOAuthController(oauthService *service.OAuthService, frontendBaseURL string) *OAuthController {
	return &OAuthController{
		OAuthService:    oauthService,
		FrontendBaseURL: frontendBaseURL,
	}
}

// Initiate godoc
// @Summary 发起联合登录
// @Description 生成一次性 nonce 并跳转到提供方授权页
// @Tags 认证
// @Param provider path string true "提供方" Enums(google, microsoft)
// @Success 302 {string} string "跳转到提供方"
// @Failure 400 {object} map[string]interface{} "未知提供方"
// @Router /auth/{provider} [get]
func (c *OAuthController) Initiate(ctx *gin.Context) {
	provider := ctx.Param("provider")

	sid, err := ctx.Cookie(sessionCookie)
	if err != nil || sid == "" {
		sid, err = service.NewSessionID()
		if err != nil {
			logger.Log.Error("Failed to create session id", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
			return
		}
		// 仅回调路径需要带上会话 cookie
		ctx.SetCookie(sessionCookie, sid, 600, "/", "", false, true)
	}

	authURL, err := c.OAuthService.Initiate(ctx.Request.Context(), provider, sid)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProvider) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider"})
			return
		}
		logger.Log.Error("OAuth initiate failed", zap.String("provider", provider), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		return
	}

	ctx.Redirect(http.StatusFound, authURL)
}

// Callback godoc
// @Summary 联合登录回调
// @Description 校验 nonce 和身份令牌，成功后带着访问令牌跳回前端
// @Tags 认证
// @Param provider path string true "提供方" Enums(google, microsoft)
// @Param code query string true "授权码"
// @Param state query string true "state 参数"
// @Success 302 {string} string "跳转到前端"
// @Failure 400 {object} map[string]interface{} "会话过期或提供方未返回邮箱"
// @Failure 500 {object} map[string]interface{} "认证失败"
// @Router /auth/{provider}/callback [get]
func (c *OAuthController) Callback(ctx *gin.Context) {
	provider := ctx.Param("provider")

	sid, err := ctx.Cookie(sessionCookie)
	if err != nil || sid == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Session expired or invalid"})
		return
	}

	token, userID, err := c.OAuthService.Callback(
		ctx.Request.Context(),
		provider,
		sid,
		ctx.Query("state"),
		ctx.Query("code"),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownProvider):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider"})
		case errors.Is(err, util.ErrSessionExpired):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Session expired or invalid"})
		case errors.Is(err, util.ErrEmailMissing):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to retrieve email from %s", providerDisplayName(provider))})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
		}
		return
	}

	redirectURL := fmt.Sprintf("%s/auth/auth-callback?token=%s&userId=%d", c.FrontendBaseURL, token, userID)
	ctx.Redirect(http.StatusFound, redirectURL)
}

func providerDisplayName(provider string) string {
	switch provider {
	case "google":
		return "Google"
	case "microsoft":
		return "Microsoft"
	default:
		return provider
	}
}
