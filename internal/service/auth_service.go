package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"study_buddy_backend/internal/config"
	"study_buddy_backend/internal/model"
	"study_buddy_backend/internal/util"
	"study_buddy_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// authUserStore 本地账户注册和登录所需的用户存储操作
type authUserStore interface {
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	ExistsByUsernameOrEmail(username, email string) (bool, error)
	Create(user *model.User) error
	UpdatePassword(userID uint, hashed string) error
	UpdateLastLogin(userID uint) error
}

type AuthService struct {
	Users authUserStore
	Mail  *MailService
	Cfg   *config.Config
}

func NewAuthService(users authUserStore, mail *MailService, cfg *config.Config) *AuthService {
	return &AuthService{
		Users: users,
		Mail:  mail,
		Cfg:   cfg,
	}
}

const resetTokenTTL = time.Hour

// Register 注册本地账户，成功后直接签发登录令牌
func (s *AuthService) Register(user *model.User) (string, error) {
	exists, err := s.Users.ExistsByUsernameOrEmail(user.Username, user.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", util.ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user.Password = string(hashedPassword)

	if err := s.Users.Create(user); err != nil {
		return "", err
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

// Login 标识可以是邮箱或用户名。未知用户和密码错误返回同一个错误，
// 不向调用方区分两种失败。
func (s *AuthService) Login(identifier, password string) (string, uint, error) {
	var (
		user *model.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.Users.FindByEmail(identifier)
	} else {
		user, err = s.Users.FindByUsername(identifier)
	}
	if err != nil {
		return "", 0, util.ErrInvalidCredentials
	}

	if user.Password == "" {
		// 仅联合登录的账号没有本地口令
		return "", 0, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", 0, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", 0, err
	}

	if err := s.Users.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("userId", user.ID), zap.Error(err))
	}

	return token, user.ID, nil
}

// RequestPasswordReset 给已注册邮箱发送带签名令牌的重置链接
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	token, err := util.GenerateResetToken(user.ID, s.Cfg.JWT.Secret, resetTokenTTL)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/user/reset_password?token=%s", s.Cfg.Server.BaseURL, token)
	body := fmt.Sprintf("Please click the following link to reset your password: %s", resetURL)
	return s.Mail.Send(email, "Password Reset Request", body)
}

// ResetPassword 校验重置令牌并写入新口令
func (s *AuthService) ResetPassword(token, newPassword string) error {
	userID, err := util.VerifyResetToken(token, s.Cfg.JWT.Secret)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.Users.UpdatePassword(userID, string(hashed))
}
