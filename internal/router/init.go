package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-todo/internal/container"
	handlers "github.com/oksasatya/go-ddd-todo/internal/interface/http"
	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-todo/internal/router/modules"
	"github.com/oksasatya/go-ddd-todo/pkg/validation"
)

// InitModules builds the handlers from c and registers their modules.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.TokenAuth(c.Config.TokenHeader, c.Validator, c.Logger)

	r.Use(middleware.RequireJSON())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Accounts, c.Logger), auth))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(c.Tasks, c.Logger), auth))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}

// New returns a Gin engine with global middleware, the health route and all modules.
func New(c *container.Container) *gin.Engine {
	validation.Init()

	cfg := c.Config
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(middleware.AccessLog(c.Logger, cfg.HTTPLogEnabled))
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", cfg.TokenHeader, middleware.RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/", handlers.Health)

	reg := NewRegistry(r, c.Logger)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
