// ステータスサービスのエントリポイント。
// ログイン状態の照会エンドポイントを提供する。認証エラーでも常に200を返す。
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/yoval53/authmesh/internal/status"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	server, err := status.NewServer(port)
	if err != nil {
		log.Fatalf("Statusサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Statusサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("Statusサービスの起動に失敗: %v", err)
	}
}
