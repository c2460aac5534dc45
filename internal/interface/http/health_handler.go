package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-todo/pkg/response"
)

func Health(c *gin.Context) {
	response.Success[any](c, http.StatusOK, nil, "All good.", nil)
}
