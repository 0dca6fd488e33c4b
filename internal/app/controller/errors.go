package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/service"
	apperrors "github.com/riadice/riadice-backend/internal/errors"
	"github.com/riadice/riadice-backend/internal/middleware"
)

// respondError maps the errors every manager shares; context names the operation for ParseError.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	if ve, ok := service.AsValidationError(err); ok {
		log.Warn("Validation failed", map[string]interface{}{
			"operation": context,
			"fields":    ve.Fields,
		})
		apperrors.RespondWithValidationError(c, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, access.ErrAdminOnly):
		apperrors.Forbidden(c, "")
	case errors.Is(err, service.ErrResourceNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, apperrors.NotFoundMessage(context))
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// currentSession is only called behind Authenticate, so a missing session is a wiring bug.
func currentSession(c *gin.Context) (access.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		apperrors.Unauthorized(c, "")
	}
	return session, ok
}
