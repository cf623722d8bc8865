package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the fixed response shape for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Respond writes a success envelope.
func Respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: status < 400,
		Message: message,
		Data:    data,
	})
}

// Fail writes a failure envelope from an error. APIErrors keep their status
// and message; anything else is reported as a generic 500.
func Fail(c *gin.Context, err error) {
	if apiErr, ok := AsAPIError(err); ok {
		c.JSON(apiErr.Status, Envelope{Success: false, Message: apiErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "Something went wrong",
	})
}

// Abort writes a failure envelope and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong"
	if apiErr, ok := AsAPIError(err); ok {
		status = apiErr.Status
		message = apiErr.Message
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
