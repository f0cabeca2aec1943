// Package api holds the HTTP handlers.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/middleware"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/repository"
)

// currentUser returns the authenticated user id, or "anonymous" on
// unauthenticated routes.
func currentUser(c *gin.Context) string {
	if id := c.GetString(middleware.CtxUserID); id != "" {
		return id
	}
	return "anonymous"
}

// errorResponse writes an error body with a machine-readable kind.
func errorResponse(c *gin.Context, code int, kind, message string) {
	c.JSON(code, gin.H{
		"error": message,
		"kind":  kind,
	})
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, "validation", message)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, "not_found", message)
}

func conflictResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusConflict, "conflict", message)
}

func unauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "unauthorized"
	}
	errorResponse(c, http.StatusUnauthorized, "unauthorized", message)
}

func unavailableResponse(c *gin.Context) {
	errorResponse(c, http.StatusServiceUnavailable, "store_unavailable", "document store unavailable")
}

// serviceError maps repository sentinels onto HTTP responses. Anything
// unrecognized is a 500.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		badRequestResponse(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		notFoundResponse(c, err.Error())
	case errors.Is(err, repository.ErrDuplicateID):
		conflictResponse(c, err.Error())
	case errors.Is(err, repository.ErrStoreUnavailable):
		unavailableResponse(c)
	default:
		errorResponse(c, http.StatusInternalServerError, "internal", "internal server error")
	}
}
