package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// hashPassword は平文パスワードからbcryptダイジェストを生成する。
func hashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	return string(digest), nil
}

// verifyPassword は平文パスワードを格納済みダイジェストと照合する。
// 不一致とダイジェスト不正はいずれもfalseに収束させる。
func verifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
