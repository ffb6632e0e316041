package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse matches the API's error contract: every failure carries a
// human-readable detail and nothing else.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func SendError(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorResponse{Detail: detail})
}

func SendMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}
