package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoval53/authmesh/pkg/session"
	"github.com/yoval53/authmesh/pkg/token"
)

// headerKeyUserID はサービス間でユーザーIDを伝播するためのHTTPヘッダーキー。
const headerKeyUserID = "X-User-ID"

// errInvalidToken は認証失敗時にクライアントへ返す統一メッセージ。
// 署名不正・期限切れ・失効済みのいずれであってもこれ以上の詳細は返さない。
const errInvalidToken = "トークンが無効です"

// BearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
// ヘッダーが無い、またはBearer形式でない場合はfalseを返す。
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

// SessionAuth はセッショントークンを二段階で検証するGinミドルウェアを返す。
// まず署名と有効期限をローカルで検証し、次にセッションストアで
// レコードの生存を確認する。ストアに到達できない場合は500を返す
// （認証済みとして扱わない）。検証に成功した場合、コンテキストに
// "user_id" と "email" を設定する。
func SessionAuth(secret string, sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		claims, err := token.Verify(secret, tokenString)
		if err != nil {
			// 失敗理由はログにのみ残し、クライアントには区別を見せない
			log.Printf("トークン検証に失敗: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
			return
		}

		live, err := sessions.IsLive(c.Request.Context(), tokenString)
		if err != nil {
			log.Printf("セッションストアの確認に失敗: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "セッションの確認に失敗しました",
			})
			return
		}
		if !live {
			log.Printf("セッションレコードが存在しない: user_id=%s", claims.Subject)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("email", claims.Email)
		c.Header(headerKeyUserID, claims.Subject)
		c.Next()
	}
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// SessionAuthミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetEmail はGinコンテキストからメールアドレスを取得する。
// SessionAuthミドルウェアが事前に適用されている必要がある。
func GetEmail(c *gin.Context) string {
	email, _ := c.Get("email")
	if e, ok := email.(string); ok {
		return e
	}
	return ""
}
