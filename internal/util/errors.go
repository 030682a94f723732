package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserExists         = errors.New("该用户名或邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid identifier or password")
	ErrSessionExpired     = errors.New("session expired or invalid")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrEmailMissing       = errors.New("identity provider did not supply an email")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)
