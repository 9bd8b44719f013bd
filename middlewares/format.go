package middlewares

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// HttpError writes an error response. The cause, when given, is attached to
// the gin context so the request logger can report it.
func HttpError(c *gin.Context, status int, title, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(status, ErrorResponse{Error: title, Message: message})
}
