package store

import "fmt"

// Config はユーザーディレクトリのバックエンド設定。
type Config struct {
	// Backend は "memory" または "sqlite"。
	Backend string
	// DSN はsqliteバックエンドのデータベースパス。
	DSN string
}

// New は設定に応じたユーザーディレクトリを生成する。
func New(cfg Config) (Users, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("sqliteバックエンドにはDSNが必要")
		}
		return NewSQLite(cfg.DSN)
	default:
		return nil, fmt.Errorf("未知のユーザーストアバックエンド: %q", cfg.Backend)
	}
}
