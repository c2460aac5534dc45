package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Registry collects modules mounted under /api along with middleware shared by all of them.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup
	logger *logrus.Logger

	middlewares []gin.HandlerFunc
	modules     []Module
	names       map[string]bool
}

func NewRegistry(engine *gin.Engine, logger *logrus.Logger) *Registry {
	return &Registry{
		Engine: engine,
		API:    engine.Group("/api"),
		logger: logger,
		names:  map[string]bool{},
	}
}

func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Add queues mod for registration. A second module with the same name is
// skipped, since gin panics on duplicate routes.
func (r *Registry) Add(mod Module) bool {
	if r.names[mod.Name()] {
		if r.logger != nil {
			r.logger.WithField("module", mod.Name()).Warn("module already registered; skipping")
		}
		return false
	}
	r.names[mod.Name()] = true
	r.modules = append(r.modules, mod)
	return true
}

// Modules returns the names of the queued modules in registration order.
func (r *Registry) Modules() []string {
	out := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m.Name())
	}
	return out
}

// RegisterAll applies the shared middleware first so every module route sees it.
func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.modules {
		m.Register(r.API)
		if r.logger != nil {
			r.logger.WithField("module", m.Name()).Debug("module registered")
		}
	}
}
