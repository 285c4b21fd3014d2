// Package router は gin エンジンを組み立てます。
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shopgraph/internal/graph"
	"shopgraph/internal/platform/http/handler"
	jwtmw "shopgraph/internal/platform/jwt"
)

// Options は任意のルーター設定です。
type Options struct {
	// AllowedOrigins が空の場合、CORS ミドルウェアは追加しません。
	AllowedOrigins []string
}

// NewRouter はルートを登録した gin エンジンを返します。
func NewRouter(gql *graph.Handler, health *handler.HealthHandler, verifier jwtmw.TokenVerifier, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	if len(opts.AllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = opts.AllowedOrigins
		cfg.AddAllowHeaders("Authorization")
		r.Use(cors.New(cfg))
	}

	// 導通確認用（認証不要）
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// GraphQL エンドポイント
	// トークンの有無・正否にかかわらず通過し、認可は各リゾルバーで行う
	api := r.Group("/")
	api.Use(jwtmw.Identify(verifier))
	{
		api.POST("/graphql", gql.Serve)
		api.GET("/graphql", gql.Serve)
	}

	return r
}
