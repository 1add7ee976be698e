package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harrisonrobin/auditboard/pkg/sheet"
	"github.com/harrisonrobin/auditboard/pkg/store"
)

// Response is the envelope of every API reply. Code 0 means success.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func success(c *gin.Context, message string, data any) {
	if message == "" {
		message = "success"
	}
	c.JSON(http.StatusOK, Response{Code: 0, Message: message, Data: data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Code: status, Message: message})
}

// failErr maps a store error to its HTTP status.
func failErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, sheet.ErrRowDelete):
		status = http.StatusNotImplemented
	case store.IsConnection(err):
		status = http.StatusServiceUnavailable
	}
	_ = c.Error(err)
	fail(c, status, err.Error())
}
