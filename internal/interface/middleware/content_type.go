package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/oksasatya/go-ddd-todo/pkg/response"
)

const wrongHeadersMessage = "Set the correct headers in your request."

// RequireJSON rejects requests that carry a body without a JSON content type.
func RequireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength == 0 || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		if c.ContentType() != binding.MIMEJSON {
			response.Error(c, http.StatusBadRequest, wrongHeadersMessage, response.ErrorBody{Code: "validation"})
			return
		}
		c.Next()
	}
}
