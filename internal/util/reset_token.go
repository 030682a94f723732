package util

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 密码重置令牌与登录令牌分开签发，subject 标记用途，有效期较短
const resetTokenPurpose = "password-reset"

type resetClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func GenerateResetToken(userID uint, secret string, ttl time.Duration) (string, error) {
	claims := &resetClaims{
		Purpose: resetTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func VerifyResetToken(tokenString, secret string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &resetClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return 0, ErrResetTokenInvalid
	}

	claims, ok := token.Claims.(*resetClaims)
	if !ok || !token.Valid || claims.Purpose != resetTokenPurpose {
		return 0, ErrResetTokenInvalid
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrResetTokenInvalid
	}

	return uint(id), nil
}
