package gateway

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yoval53/authmesh/pkg/middleware"
)

// defaultUpstreamTimeout は内部サービスへの転送タイムアウトの既定値。
const defaultUpstreamTimeout = 30 * time.Second

// Route は公開パス接頭辞から内部サービスへの静的な対応付け。
// 起動時に構築され、以降は変更しない。
type Route struct {
	// PublicPrefix は外部に公開するパスの接頭辞（例: "/api/auth"）。
	PublicPrefix string
	// BaseURL は転送先サービスのベースURL（例: "http://auth:8080"）。
	BaseURL string
	// InternalPrefix は転送先サービス側のパス接頭辞（例: "/api"）。
	InternalPrefix string
}

// Server はAPI GatewayサービスのHTTPサーバー。
// セッション状態を一切持たず、各リクエストは独立した転送として扱う。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// routes はルーティングテーブル。最長の接頭辞が優先される。
	routes []Route
	// client は内部サービスへの転送に使うHTTPクライアント。
	client *http.Client
}

// NewServer は新しいGatewayサーバーを生成する。
// ルーティングテーブルと転送タイムアウトを環境変数から構築する。
func NewServer(port string) (*Server, error) {
	routes := []Route{
		{PublicPrefix: "/api/auth", BaseURL: getEnvOr("AUTH_SERVICE_URL", "http://localhost:8080"), InternalPrefix: "/api"},
		{PublicPrefix: "/api/data", BaseURL: getEnvOr("DATA_SERVICE_URL", "http://localhost:8081"), InternalPrefix: "/api"},
		{PublicPrefix: "/api/status", BaseURL: getEnvOr("STATUS_SERVICE_URL", "http://localhost:8082"), InternalPrefix: "/api"},
	}

	timeout := defaultUpstreamTimeout
	if v := os.Getenv("GATEWAY_UPSTREAM_TIMEOUT"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("GATEWAY_UPSTREAM_TIMEOUTが不正: %q", v)
		}
		timeout = time.Duration(seconds) * time.Second
	}

	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router: router,
		port:   port,
		routes: routes,
		client: &http.Client{Timeout: timeout},
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// setupRoutes はAPIルーティングを設定する。
// /api配下の全メソッド・全パスを単一の転送ハンドラで受ける。
func (s *Server) setupRoutes() {
	s.router.Any("/api/*path", s.handleForward())

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})
}

// matchRoute はパスに対応するルートを最長接頭辞で照合する。
// 接頭辞はパスセグメント境界でのみ一致とみなす。
func (s *Server) matchRoute(path string) (Route, string, bool) {
	var best Route
	found := false
	for _, rt := range s.routes {
		if path != rt.PublicPrefix && !strings.HasPrefix(path, rt.PublicPrefix+"/") {
			continue
		}
		if !found || len(rt.PublicPrefix) > len(best.PublicPrefix) {
			best = rt
			found = true
		}
	}
	if !found {
		return Route{}, "", false
	}
	return best, strings.TrimPrefix(path, best.PublicPrefix), true
}

// handleForward はリクエストを内部サービスに転送するハンドラを返す。
// メソッド・全ヘッダー・ボディをそのまま転送し、レスポンスの
// ステータス・全ヘッダー・ボディをそのまま中継する。転送は1回のみで、
// リトライは行わない。
func (s *Server) handleForward() gin.HandlerFunc {
	return func(c *gin.Context) {
		rt, rest, ok := s.matchRoute(c.Request.URL.Path)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "ルートが見つかりません"})
			return
		}

		target := rt.BaseURL + rt.InternalPrefix + rest
		if c.Request.URL.RawQuery != "" {
			target += "?" + c.Request.URL.RawQuery
		}

		// ボディは転送前に読み切る。途中で切れたボディを転送しない。
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.Printf("リクエストボディの読み取りに失敗: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディの読み取りに失敗しました"})
			return
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, bytes.NewReader(body))
		if err != nil {
			log.Printf("転送リクエストの作成に失敗: target=%s, error=%v", target, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "転送リクエストの作成に失敗しました"})
			return
		}
		req.Header = c.Request.Header.Clone()

		resp, err := s.client.Do(req)
		if err != nil {
			log.Printf("内部サービスへの転送に失敗: target=%s, error=%v", target, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "内部サービスとの通信に失敗しました"})
			return
		}
		defer func() { _ = resp.Body.Close() }()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			log.Printf("内部サービスのレスポンス読み取りに失敗: target=%s, error=%v", target, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "内部サービスの応答の読み取りに失敗しました"})
			return
		}

		// レスポンスヘッダーをそのまま中継する。
		// Content-Lengthは書き込み時に再計算されるため除外する。
		header := c.Writer.Header()
		for key, values := range resp.Header {
			if key == "Content-Length" {
				continue
			}
			for _, v := range values {
				header.Add(key, v)
			}
		}

		c.Status(resp.StatusCode)
		if _, err := c.Writer.Write(respBody); err != nil {
			log.Printf("クライアントへの応答書き込みに失敗: %v", err)
		}
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
