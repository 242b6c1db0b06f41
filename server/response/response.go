package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/eparana/eparana/errors"
)

// JSON is the single response envelope used by every handler.
func JSON(c *gin.Context, message string, status int, data interface{}, err error) {
	var errMessage interface{}
	if err != nil {
		errMessage = err.Error()
	}
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
		"errors":  errMessage,
		"status":  http.StatusText(status),
	})
}

// HandleErrors maps known error types to their status before responding.
func HandleErrors(c *gin.Context, err error) {
	if e, ok := err.(*errs.Error); ok {
		JSON(c, "", e.Status, nil, e)
		return
	}
	JSON(c, "", http.StatusInternalServerError, nil, err)
}
