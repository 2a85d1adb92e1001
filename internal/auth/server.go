package auth

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yoval53/authmesh/internal/auth/store"
	"github.com/yoval53/authmesh/pkg/middleware"
	"github.com/yoval53/authmesh/pkg/session"
	"github.com/yoval53/authmesh/pkg/token"
)

// errBadCredentials は認証失敗時の統一メッセージ。
// ユーザー不在とパスワード不一致を区別して返すとユーザー列挙の
// 手がかりになるため、必ず同一の文言を使う。
const errBadCredentials = "メールアドレスまたはパスワードが正しくありません"

// Server は認証サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// users はユーザーディレクトリ。
	users store.Users
	// sessions はセッションレコードの書き込み先。
	sessions session.Store
	// jwtSecret はトークン署名用の共有シークレット。
	jwtSecret string
}

// NewServer は新しい認証サーバーを生成する。
// セッションストアへの接続とユーザーディレクトリの初期化を行う。
func NewServer(port string) (*Server, error) {
	sessions, err := session.NewRedis(getEnvOr("REDIS_ADDR", "localhost:6379"))
	if err != nil {
		return nil, fmt.Errorf("セッションストアへの接続に失敗: %w", err)
	}

	users, err := store.New(store.Config{
		Backend: os.Getenv("USER_STORE_BACKEND"),
		DSN:     getEnvOr("USER_STORE_DSN", "/data/auth.db"),
	})
	if err != nil {
		return nil, fmt.Errorf("ユーザーディレクトリの初期化に失敗: %w", err)
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
		users:     users,
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
		api.POST("/register", s.handleRegister())
		api.POST("/login", s.handleLogin())

		// ヘルスチェック
		api.GET("/health", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})
	}
}

// registerRequest はユーザー登録リクエストのJSON構造。
type registerRequest struct {
	// Email は登録するメールアドレス。
	Email string `json:"email" binding:"required"`
	// Password は平文パスワード。ログに出力してはならない。
	Password string `json:"password" binding:"required"`
}

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email は登録済みのメールアドレス。
	Email string `json:"email" binding:"required"`
	// Password は平文パスワード。ログに出力してはならない。
	Password string `json:"password" binding:"required"`
}

// loginResponse はログイン成功時のJSONレスポンス構造。
type loginResponse struct {
	// AccessToken は発行されたセッショントークン。
	AccessToken string `json:"access_token"`
}

// handleRegister はユーザー登録ハンドラを返す。
// トークンは発行しない。登録後に改めてログインさせる。
func (s *Server) handleRegister() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディが不正です"})
			return
		}

		digest, err := hashPassword(req.Password)
		if err != nil {
			log.Printf("パスワードのハッシュ化に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			return
		}

		user := store.User{
			ID:               uuid.New().String(),
			Email:            req.Email,
			CredentialDigest: digest,
		}
		if err := s.users.Create(c.Request.Context(), user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				c.JSON(http.StatusConflict, gin.H{"error": "このメールアドレスは既に登録されています"})
				return
			}
			log.Printf("ユーザーの登録に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ユーザー登録に失敗しました"})
			return
		}

		c.Status(http.StatusCreated)
	}
}

// handleLogin はログインハンドラを返す。
// 資格情報の検証に成功した場合、トークンを発行し、セッションストアへ
// 登録が完了してからクライアントに返す。登録に失敗したトークンは
// どの検証サービスからも生存確認できないため、決して返してはならない。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディが不正です"})
			return
		}

		// ユーザーディレクトリの参照はここで完結させる。
		// 以降のトークン発行とストア書き込みはディレクトリのロック外で行われる。
		user, err := s.users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// ユーザー不在の詳細はログにのみ残す
				log.Printf("ログイン失敗: ユーザーが存在しない: email=%s", req.Email)
				c.JSON(http.StatusUnauthorized, gin.H{"error": errBadCredentials})
				return
			}
			log.Printf("ユーザーの検索に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログインに失敗しました"})
			return
		}

		if !verifyPassword(req.Password, user.CredentialDigest) {
			log.Printf("ログイン失敗: パスワード不一致: user_id=%s", user.ID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": errBadCredentials})
			return
		}

		tokenStr, err := token.Issue(s.jwtSecret, user.ID, user.Email)
		if err != nil {
			log.Printf("トークンの発行に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログインに失敗しました"})
			return
		}

		if err := s.sessions.Register(c.Request.Context(), tokenStr, session.DefaultTTL); err != nil {
			log.Printf("セッションレコードの登録に失敗: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "ログインに失敗しました"})
			return
		}

		c.JSON(http.StatusOK, loginResponse{AccessToken: tokenStr})
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
