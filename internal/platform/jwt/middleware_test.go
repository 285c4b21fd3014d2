package jwtmw

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"shopgraph/internal/shared/identity"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// runIdentify はミドルウェアを実行し、ハンドラーから見えるIDを返します。
func runIdentify(t *testing.T, authHeader string) (identity.Identity, *httptest.ResponseRecorder) {
	t.Helper()

	var seen identity.Identity
	router := gin.New()
	router.Use(Identify(NewVerifier(testSecret)))
	router.GET("/", func(c *gin.Context) {
		seen = identity.FromContext(c.Request.Context())
		if v, ok := c.Get(ContextIdentity); !ok || v != seen {
			t.Errorf("gin context identity %v does not match request context %v", v, seen)
		}
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return seen, w
}

// TestIdentify_Anonymous はトークンなし・不正トークンのいずれでもリクエストが通過し匿名になることを検証します。
func TestIdentify_Anonymous(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
	}{
		{"no header", ""},
		{"basic auth", "Basic dXNlcjpwYXNz"},
		{"malformed token", "Bearer not.a.valid.token"},
		{"expired token", "Bearer " + createTokenWithSecret(testSecret, "user-1", -time.Hour)},
		{"wrong secret", "Bearer " + createTokenWithSecret("other", "user-1", time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, w := runIdentify(t, tt.authHeader)

			assert.Equal(t, http.StatusNoContent, w.Code, "request must not be rejected")
			assert.Equal(t, identity.Anonymous{}, id)
		})
	}
}

// TestIdentify_Authenticated は有効なトークンでクレームがコンテキストに設定されることを検証します。
func TestIdentify_Authenticated(t *testing.T) {
	token := createTokenWithSecret(testSecret, "user-7", time.Hour)

	for _, header := range []string{"Bearer " + token, token} {
		id, w := runIdentify(t, header)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, identity.Authenticated{Claims: identity.Claims{
			UserID: "user-7",
			Email:  "test@example.com",
			Role:   "customer",
		}}, id)
	}
}
