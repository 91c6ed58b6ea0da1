package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func SendResponse(c *gin.Context, status int, message string, data interface{}, err interface{}) {
	c.JSON(status, Response{
		Status:  status,
		Message: message,
		Data:    data,
		Error:   err,
	})
}

// AbortResponse writes the envelope and stops the handler chain.
func AbortResponse(c *gin.Context, status int, message string, err interface{}) {
	c.AbortWithStatusJSON(status, Response{
		Status:  status,
		Message: message,
		Error:   err,
	})
}

// SendError maps err to a response. APIErrors keep their status and message,
// anything else is logged through the request's logger and answered with a
// bare 500.
func SendError(c *gin.Context, message string, err error) {
	if apiErr, ok := AsAPIError(err); ok {
		details := apiErr.Details
		if details == nil {
			details = apiErr.Message
		}
		SendResponse(c, apiErr.Status, message, nil, details)
		return
	}

	LoggerFrom(c.Request.Context()).ErrorContext(c.Request.Context(), message,
		"error", err,
		"method", c.Request.Method,
		"path", c.FullPath(),
	)
	SendResponse(c, http.StatusInternalServerError, "Internal server error", nil, message)
}
