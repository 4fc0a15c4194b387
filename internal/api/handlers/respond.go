package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/narratif/studio/internal/gateway"
	"github.com/narratif/studio/internal/models"
	"github.com/narratif/studio/internal/orchestrator"
	"github.com/narratif/studio/internal/pipeline"
)

// statusFor maps domain errors onto HTTP statuses. Provider-side
// failures are upstream errors, not ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, orchestrator.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrNoCharacters):
		return http.StatusUnprocessableEntity
	case errors.Is(err, gateway.ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, gateway.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, gateway.ErrUnsupportedKind):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrMalformedResponse),
		errors.Is(err, gateway.ErrEmptyResult),
		errors.Is(err, gateway.ErrProviderUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError reports a failed operation. When the project survived
// with a fallback stage it rides along so clients can resync.
func respondError(c *gin.Context, logger *zap.Logger, err error, p *models.Project) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	body := gin.H{"error": err.Error()}
	if p != nil {
		body["project"] = p
	}
	c.JSON(status, body)
}
