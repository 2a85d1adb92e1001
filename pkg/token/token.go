package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Lifetime はトークン自体に埋め込まれる有効期限。
// セッションストア側のTTL（48時間）とは独立した失効機構として機能する。
const Lifetime = 1 * time.Hour

// issuer はトークンのiss（発行者）クレーム値。
const issuer = "authmesh-auth"

// 検証失敗の分類。呼び出し側のHTTPレスポンスはいずれも401に収束させ、
// 分類はサーバー側ログにのみ使用すること。
var (
	// ErrMalformed はトークン文字列の構造が不正であることを表す。
	ErrMalformed = errors.New("トークンの形式が不正")
	// ErrSignature は署名検証に失敗したことを表す。
	ErrSignature = errors.New("トークンの署名が不正")
	// ErrExpired は埋め込みの有効期限が過ぎていることを表す。
	ErrExpired = errors.New("トークンの有効期限切れ")
)

// Claims はセッショントークンのクレーム（ペイロード）を表す。
// Subject（sub）にユーザーIDを格納する。
type Claims struct {
	jwt.RegisteredClaims
	// Email はログイン時に確認されたユーザーのメールアドレス。
	Email string `json:"email"`
}

// Issue はユーザー情報からセッショントークンを発行する。
// 有効期限はLifetime後に設定され、クライアント側から延長することはできない。
func Issue(secret, userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
		Email: email,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークン文字列を検証し、クレームを返す。
// 失敗時はErrMalformed・ErrSignature・ErrExpiredのいずれかを
// errors.Isで判別可能なエラーとして返す。
func Verify(secret, tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("想定外の署名アルゴリズム: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %w", ErrSignature, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}
	if !t.Valid {
		return nil, ErrSignature
	}
	return claims, nil
}
