package status

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yoval53/authmesh/pkg/middleware"
	"github.com/yoval53/authmesh/pkg/session"
	"github.com/yoval53/authmesh/pkg/token"
)

// Server はログイン状態確認サービスのHTTPサーバー。
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

// NewServer は新しいログイン状態確認サーバーを生成する。
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
		api.GET("/is-logged-in", s.handleIsLoggedIn())

		// ヘルスチェック
		api.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
	}
}

// loginStatusResponse はログイン状態のJSONレスポンス構造。
type loginStatusResponse struct {
	// IsLoggedIn はトークンが現在有効かどうか。
	IsLoggedIn bool `json:"is_logged_in"`
	// User はログイン中ユーザーのメールアドレス。未ログイン時はnull。
	User *string `json:"user"`
}

// handleIsLoggedIn はログイン状態を返すハンドラを返す。
// このエンドポイントは認証失敗をエラーとして扱わず、常に200を返す。
// セッションストアに到達できない場合も未ログイン扱いとする。
func (s *Server) handleIsLoggedIn() gin.HandlerFunc {
	loggedOut := loginStatusResponse{IsLoggedIn: false, User: nil}

	return func(c *gin.Context) {
		tokenString, ok := middleware.BearerToken(c)
		if !ok {
			c.JSON(http.StatusOK, loggedOut)
			return
		}

		claims, err := token.Verify(s.jwtSecret, tokenString)
		if err != nil {
			log.Printf("トークン検証に失敗: %v", err)
			c.JSON(http.StatusOK, loggedOut)
			return
		}

		live, err := s.sessions.IsLive(c.Request.Context(), tokenString)
		if err != nil {
			log.Printf("セッションストアの確認に失敗: %v", err)
			c.JSON(http.StatusOK, loggedOut)
			return
		}
		if !live {
			c.JSON(http.StatusOK, loggedOut)
			return
		}

		c.JSON(http.StatusOK, loginStatusResponse{IsLoggedIn: true, User: &claims.Email})
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
