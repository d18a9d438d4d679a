package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/logger"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/middleware"
	"github.com/dreammeanings/aroundmenow-sub001/pkg/response"
)

// writeError maps domain sentinels to 404/403/400. Anything else is logged and
// returned as a generic 500 so store details never reach the client.
func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Event not found"))
	case errors.Is(err, domain.ErrVenueNotFound):
		c.JSON(http.StatusNotFound, response.NotFound("Venue not found"))
	case errors.Is(err, domain.ErrNotVenueOwner):
		c.JSON(http.StatusForbidden, response.Forbidden("You do not manage this venue"))
	case domain.IsValidationError(err):
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
	default:
		logger.Error(op+" failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, response.InternalError(""))
	}
}
