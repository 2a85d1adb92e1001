package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/yoval53/authmesh/pkg/session"
	"github.com/yoval53/authmesh/pkg/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testJWTSecret はテスト用のトークン署名シークレット。
const testJWTSecret = "test-secret-key"

// newTestServer はテスト用のログイン状態確認サーバーを生成する。
func newTestServer(t *testing.T) (*Server, *session.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredisの起動に失敗: %v", err)
	}
	t.Cleanup(mr.Close)

	sessions, err := session.NewRedis(mr.Addr())
	if err != nil {
		t.Fatalf("セッションストアの生成に失敗: %v", err)
	}
	t.Cleanup(func() { _ = sessions.Close() })

	router := gin.New()
	s := &Server{
		router:    router,
		port:      "0",
		sessions:  sessions,
		jwtSecret: testJWTSecret,
	}
	s.setupRoutes()

	return s, sessions, mr
}

// checkStatus は指定ヘッダーで/api/is-logged-inを呼び、結果をパースする。
func checkStatus(t *testing.T, s *Server, authHeader string) (int, loginStatusResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/is-logged-in", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	s.router.ServeHTTP(w, req)

	var result loginStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("レスポンスのパースに失敗: %v", err)
	}
	return w.Code, result
}

// TestHandleIsLoggedIn はログイン状態確認ハンドラのテスト。
func TestHandleIsLoggedIn(t *testing.T) {
	t.Parallel()

	t.Run("有効なトークンでログイン中と判定されること", func(t *testing.T) {
		t.Parallel()

		s, sessions, _ := newTestServer(t)
		tokenStr, err := token.Issue(testJWTSecret, "user-1", "status@example.com")
		if err != nil {
			t.Fatalf("トークンの発行に失敗: %v", err)
		}
		if err := sessions.Register(context.Background(), tokenStr, session.DefaultTTL); err != nil {
			t.Fatalf("セッションレコードの登録に失敗: %v", err)
		}

		code, result := checkStatus(t, s, "Bearer "+tokenStr)
		if code != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want %d", code, http.StatusOK)
		}
		if !result.IsLoggedIn {
			t.Error("is_logged_in = false, want true")
		}
		if result.User == nil || *result.User != "status@example.com" {
			t.Errorf("user = %v, want %q", result.User, "status@example.com")
		}
	})

	t.Run("Authorizationヘッダーが無い場合も200で未ログインと判定されること", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t)

		code, result := checkStatus(t, s, "")
		if code != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want %d", code, http.StatusOK)
		}
		if result.IsLoggedIn {
			t.Error("is_logged_in = true, want false")
		}
		if result.User != nil {
			t.Errorf("user = %v, want null", result.User)
		}
	})

	t.Run("無効なトークンでも200で未ログインと判定されること", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t)

		code, result := checkStatus(t, s, "Bearer invalid-token-string")
		if code != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want %d", code, http.StatusOK)
		}
		if result.IsLoggedIn {
			t.Error("is_logged_in = true, want false")
		}
	})

	t.Run("失効済みトークンで未ログインと判定されること", func(t *testing.T) {
		t.Parallel()

		s, _, _ := newTestServer(t)
		tokenStr, err := token.Issue(testJWTSecret, "user-revoked", "revoked@example.com")
		if err != nil {
			t.Fatalf("トークンの発行に失敗: %v", err)
		}
		// レコードを登録しない＝失効済みと同じ状態

		code, result := checkStatus(t, s, "Bearer "+tokenStr)
		if code != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want %d", code, http.StatusOK)
		}
		if result.IsLoggedIn {
			t.Error("is_logged_in = true, want false")
		}
	})

	t.Run("セッションストアに到達できない場合も200で未ログインと判定されること", func(t *testing.T) {
		t.Parallel()

		s, sessions, mr := newTestServer(t)
		tokenStr, err := token.Issue(testJWTSecret, "user-down", "down@example.com")
		if err != nil {
			t.Fatalf("トークンの発行に失敗: %v", err)
		}
		if err := sessions.Register(context.Background(), tokenStr, session.DefaultTTL); err != nil {
			t.Fatalf("セッションレコードの登録に失敗: %v", err)
		}

		mr.Close()

		code, result := checkStatus(t, s, "Bearer "+tokenStr)
		if code != http.StatusOK {
			t.Fatalf("ステータスコード: got %d, want %d", code, http.StatusOK)
		}
		if result.IsLoggedIn {
			t.Error("is_logged_in = true, want false")
		}
	})
}

// TestStatusHealthCheck はヘルスチェックエンドポイントのテスト。
func TestStatusHealthCheck(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("ステータスコード: got %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "OK" {
		t.Errorf("ボディ: got %q, want %q", w.Body.String(), "OK")
	}
}
