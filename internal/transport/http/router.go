package http

import (
	"github.com/gin-gonic/gin"

	"github.com/example/blog-web/internal/service"
	"github.com/example/blog-web/internal/transport/http/handlers"
)

type Router = *gin.Engine

// NewRouter builds the gin engine: templates, static assets, the post
// routes and the catch-all not-found page.
func NewRouter(svc *service.PostService, templatesGlob, staticDir string) Router {
	if mode := gin.Mode(); mode == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	r.LoadHTMLGlob(templatesGlob)
	r.Static("/static", staticDir)

	h := handlers.NewPostHandler(svc)

	r.GET("/", h.List)
	r.GET("/new", h.New)
	r.GET("/search", h.Search)
	r.POST("/", h.Create)
	r.GET("/:id", h.Edit)
	r.POST("/:id", h.Update)
	r.POST("/delete/:id", h.Delete)

	r.NoRoute(h.NotFound)

	return r
}
