package store

import (
	"context"
	"sync"
)

// MemoryStore はミューテックスで保護されたマップによるユーザーディレクトリ。
// 単一プロセスでの動作確認やテストに使用する。
type MemoryStore struct {
	// mu はusersへのアクセスを直列化する。ロックは単一の読み書き操作の
	// 間のみ保持し、ネットワーク呼び出しをまたいで保持してはならない。
	mu sync.Mutex
	// users はメールアドレスをキーとするユーザーマップ。
	users map[string]User
}

var _ Users = (*MemoryStore)(nil)

// NewMemory はインメモリのユーザーディレクトリを生成する。
func NewMemory() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

// Create はユーザーを登録する。
func (s *MemoryStore) Create(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return ErrDuplicateEmail
	}
	s.users[user.Email] = user
	return nil
}

// GetByEmail はメールアドレスでユーザーを検索する。
func (s *MemoryStore) GetByEmail(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[email]
	if !exists {
		return User{}, ErrNotFound
	}
	return user, nil
}
