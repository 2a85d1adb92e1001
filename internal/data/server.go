package data

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yoval53/authmesh/pkg/middleware"
	"github.com/yoval53/authmesh/pkg/session"
)

// Server はデータサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// sessions はセッションレコードの参照先（読み取り専用）。
	sessions session.Store
	// jwtSecret はトークン検証用の共有シークレット。
	jwtSecret string
}

// NewServer は新しいデータサーバーを生成する。
func NewServer(port string) (*Server, error) {
	sessions, err := session.NewRedis(getEnvOr("REDIS_ADDR", "localhost:6379"))
	if err != nil {
		return nil, fmt.Errorf("セッションストアへの接続に失敗: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:    router,
		port:      port,
		sessions:  sessions,
		jwtSecret: jwtSecret,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/data", middleware.SessionAuth(s.jwtSecret, s.sessions), s.handleGetData())

		// ヘルスチェック（認証不要）
		api.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
	}
}

// dataResponse はデータ取得レスポンスのJSON構造。
type dataResponse struct {
	// Message は呼び出し元への挨拶メッセージ。
	Message string `json:"message"`
	// UserEmail は検証済みトークンから取り出したメールアドレス。
	UserEmail string `json:"user_email"`
	// Data はモックの業務データ。
	Data []dataItem `json:"data"`
}

// dataItem はモックデータの1項目。
type dataItem struct {
	// ID は項目の識別子。
	ID int `json:"id"`
	// Name は項目名。
	Name string `json:"name"`
	// Description は項目の説明。
	Description string `json:"description"`
}

// handleGetData は認証済みの呼び出し元にモックデータを返すハンドラを返す。
func (s *Server) handleGetData() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dataResponse{
			Message:   "Here is your mock data!",
			UserEmail: middleware.GetEmail(c),
			Data: []dataItem{
				{ID: 1, Name: "Item 1", Description: "This is the first mock item"},
				{ID: 2, Name: "Item 2", Description: "This is the second mock item"},
				{ID: 3, Name: "Item 3", Description: "This is the third mock item"},
			},
		})
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
