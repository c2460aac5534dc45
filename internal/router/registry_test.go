package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-todo/pkg/helpers"
)

type pingModule struct{ name string }

func (m pingModule) Name() string { return m.name }

func (m pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/"+m.name, func(c *gin.Context) { c.String(http.StatusOK, m.name) })
}

func TestRegistry_SkipsDuplicateNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := NewRegistry(gin.New(), helpers.NewLogger("test", "test"))

	assert.True(t, reg.Add(pingModule{name: "ping"}))
	assert.False(t, reg.Add(pingModule{name: "ping"}))
	assert.True(t, reg.Add(pingModule{name: "pong"}))
	assert.Equal(t, []string{"ping", "pong"}, reg.Modules())

	require.NotPanics(t, reg.RegisterAll)
}

func TestRegistry_SharedMiddlewareRunsBeforeModules(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	reg := NewRegistry(engine, nil)
	reg.Use(func(c *gin.Context) {
		c.Header("X-Shared", "yes")
		c.Next()
	})
	reg.Add(pingModule{name: "ping"})
	reg.RegisterAll()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Shared"))
	assert.Equal(t, "ping", w.Body.String())
}
