package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
)

// Server represents the HTTP server.
type Server struct {
	Router *gin.Engine
	http   *http.Server
}

// New wires services and handlers into a server instance.
func New(cfg *config.Config, db *gorm.DB, auth *service.AuthService, media service.MediaStore) *Server {
	recipeService := service.NewRecipeService(db, media)
	userService := service.NewUserService(db)
	followService := service.NewFollowService(db)

	opts := router.Options{
		UserHandler:    api.NewUserHandler(auth, userService, followService),
		RecipeHandler:  api.NewRecipeHandler(recipeService),
		CatalogHandler: api.NewCatalogHandler(db),
		TokenValidator: auth,
		CORSOrigins:    cfg.CORSOrigins,
	}
	if cfg.S3Bucket == "" {
		opts.MediaDir = cfg.MediaDir
	}

	engine := router.SetupRouter(opts)

	return &Server{
		Router: engine,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
