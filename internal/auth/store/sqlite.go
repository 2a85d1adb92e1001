package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/yoval53/authmesh/pkg/migration"
)

//go:embed migrations/*.up.sql
var migrationsFS embed.FS

// SQLiteStore はSQLiteをバックエンドとするユーザーディレクトリ。
type SQLiteStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

var _ Users = (*SQLiteStore)(nil)

// NewSQLite はSQLiteバックエンドのユーザーディレクトリを生成する。
// 接続後、埋め込みマイグレーションでスキーマを適用する。
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := migration.Run(db, migrationsFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("スキーマ適用に失敗: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create はユーザーを登録する。
// UNIQUE制約違反はErrDuplicateEmailに写像する。
func (s *SQLiteStore) Create(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, credential_digest) VALUES (?, ?, ?)",
		user.ID, user.Email, user.CredentialDigest,
	)
	if err != nil {
		// modernc.org/sqliteは制約違反を型付きエラーとして公開しないため
		// メッセージで判別する
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}
	return nil
}

// GetByEmail はメールアドレスでユーザーを検索する。
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, credential_digest FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.Email, &user.CredentialDigest)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("ユーザーの検索に失敗: %w", err)
	}
	return user, nil
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
