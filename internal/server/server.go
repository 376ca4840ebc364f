// Package server renders the command dispatch boundary over HTTP. The
// interface shell sends each named call as POST /invoke/<command> with a
// JSON payload and receives either the result or a structured error.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ojosproject/iris-store/internal/commands"
	apperrors "github.com/ojosproject/iris-store/internal/errors"
)

// NewRouter builds the HTTP surface over the dispatcher.
func NewRouter(dispatcher *commands.Dispatcher) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/invoke/:command", func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			writeError(c, apperrors.NewValidationError("BAD_PAYLOAD", "unreadable request body"))
			return
		}

		result, err := dispatcher.Invoke(c.Request.Context(), c.Param("command"), json.RawMessage(payload))
		if err != nil {
			writeError(c, err)
			return
		}
		if result == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, result)
	})

	return router
}

// writeError maps the store's error taxonomy onto HTTP statuses and emits
// the structured {kind, code, message} body.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewStorageError(err)
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperrors.KindValidation:
		status = http.StatusBadRequest
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindIntegrity:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"kind":    appErr.Kind,
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
