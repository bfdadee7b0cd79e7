// Package response defines the success envelope every 2xx answer is wrapped
// in.
package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the fixed JSON shape of a successful response.
type Envelope struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Meta      any    `json:"meta"`
	TimeStamp string `json:"timeStamp"`
}

// OK writes the success envelope with the given status code, message and
// payload. Nil data or meta serialize as empty objects.
func OK(c *gin.Context, status int, message string, data any, meta any) {
	if data == nil {
		data = gin.H{}
	}
	if meta == nil {
		meta = gin.H{}
	}

	c.JSON(status, Envelope{
		Success:   true,
		Status:    "Success",
		Message:   message,
		Data:      data,
		Meta:      meta,
		TimeStamp: time.Now().UTC().Format(time.RFC3339),
	})
}
