// 認証サービスのエントリポイント。
// ユーザー登録・ログイン・アクセストークン発行を担当する。
// ログイン成功時はRedis上のセッションレコードを登録してからトークンを返す。
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/yoval53/authmesh/internal/auth"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server, err := auth.NewServer(port)
	if err != nil {
		log.Fatalf("Authサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Authサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("Authサービスの起動に失敗: %v", err)
	}
}
