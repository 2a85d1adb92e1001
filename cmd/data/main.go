// データサービスのエントリポイント。
// セッション認証済みのユーザーにのみ保護リソースを返す。
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/yoval53/authmesh/internal/data"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	server, err := data.NewServer(port)
	if err != nil {
		log.Fatalf("Dataサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Dataサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("Dataサービスの起動に失敗: %v", err)
	}
}
