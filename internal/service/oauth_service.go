package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"study_buddy_backend/internal/config"
	"study_buddy_backend/internal/model"
	"study_buddy_backend/internal/util"
	"study_buddy_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NonceStore 以浏览器会话为键的一次性状态存储。Pop 是原子的
// 读取并删除：nonce 单次使用，无论校验结果如何，取出即作废。
type NonceStore interface {
	Put(ctx context.Context, sid, value string, ttl time.Duration) error
	Pop(ctx context.Context, sid string) (string, error)
}

// oauthUserStore OAuth 登录落账所需的用户存储操作
type oauthUserStore interface {
	FindByEmail(email string) (*model.User, error)
	Create(user *model.User) error
	UpdateLastLogin(userID uint) error
}

// OAuthService 三步外部跳转登录：发起 → 提供方跳转 → 回调。
// 发起时生成的 nonce 绑定到回调时的身份令牌校验上，防止重放和替换。
type OAuthService struct {
	Providers map[string]ProviderClient
	Sessions  NonceStore
	Users     oauthUserStore
	JWTSecret string
	JWTExpire time.Duration
	NonceTTL  time.Duration
}

func NewOAuthService(providers map[string]ProviderClient, sessions NonceStore, users oauthUserStore, cfg *config.Config) *OAuthService {
	return &OAuthService{
		Providers: providers,
		Sessions:  sessions,
		Users:     users,
		JWTSecret: cfg.JWT.Secret,
		JWTExpire: cfg.JWT.ExpireTime,
		NonceTTL:  time.Duration(cfg.OAuth.NonceTTLMinutes) * time.Minute,
	}
}

var ErrUnknownProvider = errors.New("unknown oauth provider")

// Initiate 生成新的 nonce 和 state，存入会话后返回提供方授权地址
func (s *OAuthService) Initiate(ctx context.Context, provider, sid string) (string, error) {
	client, ok := s.Providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	state, err := randomToken(16)
	if err != nil {
		return "", err
	}
	nonce, err := randomToken(16)
	if err != nil {
		return "", err
	}

	if err := s.Sessions.Put(ctx, sid, state+"|"+nonce, s.NonceTTL); err != nil {
		return "", err
	}

	return client.AuthCodeURL(state, nonce), nil
}

// Callback 处理提供方回调：换码、弹出 nonce、验证身份、落账、签发令牌。
// 任何一步失败都拒绝登录，绝不回退到未验证的断言。
func (s *OAuthService) Callback(ctx context.Context, provider, sid, state, code string) (string, uint, error) {
	client, ok := s.Providers[provider]
	if !ok {
		return "", 0, ErrUnknownProvider
	}

	rawIDToken, err := client.Exchange(ctx, code)
	if err != nil {
		logger.Log.Error("OAuth code exchange failed", zap.String("provider", provider), zap.Error(err))
		return "", 0, util.ErrAuthFailed
	}

	// nonce 取出即删除，重放同一个回调地址会在这里失败
	stored, err := s.Sessions.Pop(ctx, sid)
	if err != nil {
		logger.Log.Error("Nonce store unavailable", zap.String("provider", provider), zap.Error(err))
		return "", 0, util.ErrAuthFailed
	}
	if stored == "" {
		logger.Log.Warn("Nonce not found in session", zap.String("provider", provider))
		return "", 0, util.ErrSessionExpired
	}

	expectedState, nonce, found := strings.Cut(stored, "|")
	if !found || state == "" || state != expectedState {
		logger.Log.Warn("OAuth state mismatch", zap.String("provider", provider))
		return "", 0, util.ErrAuthFailed
	}

	identity, err := client.VerifyIdentity(ctx, rawIDToken, nonce)
	if err != nil {
		logger.Log.Error("Identity token verification failed", zap.String("provider", provider), zap.Error(err))
		return "", 0, util.ErrAuthFailed
	}

	if identity.Email == "" {
		return "", 0, util.ErrEmailMissing
	}

	user, err := s.findOrCreateUser(provider, identity)
	if err != nil {
		logger.Log.Error("OAuth user lookup failed", zap.String("provider", provider), zap.Error(err))
		return "", 0, util.ErrAuthFailed
	}

	token, err := util.GenerateJWT(user, s.JWTSecret, s.JWTExpire)
	if err != nil {
		return "", 0, util.ErrAuthFailed
	}

	if err := s.Users.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}

	return token, user.ID, nil
}

func (s *OAuthService) findOrCreateUser(provider string, identity *Identity) (*model.User, error) {
	user, err := s.Users.FindByEmail(identity.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &model.User{
		Username: strings.SplitN(identity.Email, "@", 2)[0],
		Name:     identity.Name,
		Email:    identity.Email,
	}
	switch provider {
	case "google":
		user.GoogleID = identity.SubjectID
	case "microsoft":
		user.MicrosoftID = identity.SubjectID
	default:
		return nil, fmt.Errorf("no subject field for provider %s", provider)
	}

	if err := s.Users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// NewSessionID 生成新的浏览器会话标识
func NewSessionID() (string, error) {
	return randomToken(16)
}

// randomToken 返回 n 字节熵的 URL 安全随机串
func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
