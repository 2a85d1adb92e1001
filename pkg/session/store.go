package session

import (
	"context"
	"time"
)

// DefaultTTL はセッションレコードの標準生存期間。
// トークン埋め込みの有効期限（1時間）より長く、漏洩したトークンの
// 悪用可能期間の上限として機能する。
const DefaultTTL = 48 * time.Hour

// Store はセッションレコードの読み書きを抽象化するインターフェース。
type Store interface {
	// Register はトークンのセッションレコードをTTL付きで書き込む。
	// トークンは高エントロピーのため、既存キーの上書きは許容する。
	Register(ctx context.Context, token string, ttl time.Duration) error
	// IsLive はレコードが存在するかを返す。TTL経過または明示的な
	// 失効によりレコードが消えていればfalseを返す。
	IsLive(ctx context.Context, token string) (bool, error)
	// Revoke はレコードを削除し、トークンを自然失効前に無効化する。
	Revoke(ctx context.Context, token string) error
}
