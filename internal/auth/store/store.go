// Package store は認証サービスのユーザーディレクトリを提供する。
//
// ディレクトリはUsersインターフェースの背後に隠蔽され、インメモリと
// SQLiteの2つのバックエンドを選択できる。ユーザーレコードを書き込むのは
// 認証サービスのみで、登録後の更新・削除は行わない。
package store

import (
	"context"
	"errors"
)

// ErrDuplicateEmail は同一メールアドレスのユーザーが既に存在することを表す。
var ErrDuplicateEmail = errors.New("メールアドレスが既に登録されている")

// ErrNotFound は該当するユーザーが存在しないことを表す。
var ErrNotFound = errors.New("ユーザーが存在しない")

// User はユーザーディレクトリの1レコード。
type User struct {
	// ID は登録時に生成される不変の一意識別子。
	ID string
	// Email はユーザーの一意キー。格納時の大文字小文字をそのまま区別する。
	Email string
	// CredentialDigest はパスワードのハッシュ値。
	// ログやレスポンスに出力してはならない。
	CredentialDigest string
}

// Users はユーザーディレクトリへのアクセスを抽象化するインターフェース。
type Users interface {
	// Create はユーザーを登録する。メールアドレスが重複する場合は
	// ErrDuplicateEmailを返し、既存レコードは変更しない。
	Create(ctx context.Context, user User) error
	// GetByEmail はメールアドレスでユーザーを検索する。
	// 存在しない場合はErrNotFoundを返す。
	GetByEmail(ctx context.Context, email string) (User, error)
}
