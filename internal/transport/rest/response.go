package rest

import (
	"github.com/gin-gonic/gin"
)

type response struct {
	Message string `json:"message"`
}

type dataResponse struct {
	Data  interface{} `json:"data"`
	Count int         `json:"count,omitempty"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

func newResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, response{Message: message})
}
