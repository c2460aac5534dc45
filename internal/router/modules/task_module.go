package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ddd-todo/internal/interface/http"
)

type TaskModule struct {
	Handler *handlers.TaskHandler
	Auth    gin.HandlerFunc
}

func NewTaskModule(h *handlers.TaskHandler, auth gin.HandlerFunc) *TaskModule {
	return &TaskModule{Handler: h, Auth: auth}
}

func (m *TaskModule) Name() string { return "todos" }

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	todos := rg.Group("/todos")
	todos.Use(m.Auth)
	{
		todos.POST("", m.Handler.Create)
		todos.GET("", m.Handler.List)
		todos.GET("/search", m.Handler.Search)
		todos.POST("/export", m.Handler.Export)
		todos.GET("/:id", m.Handler.Get)
		todos.PATCH("/:id", m.Handler.Update)
		todos.DELETE("/:id", m.Handler.Delete)
	}
}
