package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/middleware"
)

// Options carries everything the router needs to assemble routes.
type Options struct {
	UserHandler    *api.UserHandler
	RecipeHandler  *api.RecipeHandler
	CatalogHandler *api.CatalogHandler
	TokenValidator middleware.TokenValidator

	// CORSOrigins lists allowed origins; empty means same-origin only.
	CORSOrigins []string

	// MediaDir, when set, is served under /media/ for locally stored
	// recipe images.
	MediaDir string
}

// SetupRouter configures the application routes.
func SetupRouter(opts Options) *gin.Engine {
	router := gin.Default()

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	if opts.MediaDir != "" {
		router.Static("/media", opts.MediaDir)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	opts.UserHandler.RegisterRoutes(v1, opts.TokenValidator)
	opts.RecipeHandler.RegisterRoutes(v1, opts.TokenValidator)
	opts.CatalogHandler.RegisterRoutes(v1)

	return router
}
