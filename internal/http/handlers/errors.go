package handlers

import (
	"net/http"

	"rental/internal/domain"
	"rental/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"details":    details,
		"request_id": middleware.GetRequestID(c),
		"message":    message,
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsAvailability(err):
		respondError(c, http.StatusConflict, "vehicle_unavailable", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsIntegrity(err):
		respondError(c, http.StatusConflict, "integrity_violation", err.Error(), nil)
	case domain.IsConcurrency(err):
		respondError(c, http.StatusConflict, "concurrent_update", err.Error(), nil)
	case domain.IsDocument(err):
		respondError(c, http.StatusInternalServerError, "document_error", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "ocorreu um erro interno", nil)
	}
}
