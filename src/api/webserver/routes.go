package webserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Malathy01/LifecodeAI/src/api/config"
	"github.com/Malathy01/LifecodeAI/src/store"
)

func attachRoutes(r *gin.Engine, cfg config.Config, st *store.Store) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuth(st, []byte(cfg.JWTSecret))
	claimsH := NewClaims(st)
	portalH := NewPortal(st)
	communityH := NewCommunity(st)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/signin", authH.SignIn)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.POST("/claims/analyze", claimsH.Analyze)
		secured.GET("/claims/history", claimsH.History)
		secured.GET("/claims/current", claimsH.Current)

		secured.GET("/portal/questions", portalH.List)
		secured.POST("/portal/questions/:id/response", portalH.Respond)

		secured.GET("/community/posts", communityH.ListPosts)
		secured.POST("/community/posts", communityH.CreatePost)
		secured.POST("/community/posts/:id/comments", communityH.AddComment)
		secured.POST("/community/posts/:id/like", communityH.Like)

		secured.GET("/trending", claimsH.Trending)
	}
}
