package webserver

import (
	"github.com/gin-gonic/gin"

	"github.com/Malathy01/LifecodeAI/src/api/config"
	"github.com/Malathy01/LifecodeAI/src/store"
)

func New(cfg config.Config, st *store.Store) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, st)
	return g
}
