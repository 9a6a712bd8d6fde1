package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-report/internal/dto"
	"shift-report/internal/service"
	pkgerrors "shift-report/pkg/errors"
	"shift-report/pkg/response"
)

// MustGetAdminSession reads the session stored by AdminAuth.
// Writes a 401 and returns false when it is missing; callers just return.
func MustGetAdminSession(c *gin.Context) (*dto.AdminSession, bool) {
	v, exists := c.Get("admin_session")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	sess, ok := v.(*dto.AdminSession)
	if !ok || sess == nil || sess.ID == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return sess, true
}

// bindFailed answers a request whose body or query could not be bound.
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	response.BadRequest(c, 10001, "invalid request parameters")
}

// writeServiceError maps service sentinels to the response envelope.
func writeServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 20001, "validation failed", verr.Error())
	case errors.Is(err, pkgerrors.ErrDuplicateReport):
		response.Conflict(c, 20002, "a report with the same time already exists for this person")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 20003, "dates must be YYYY-MM-DD and start must not be after end")
	case errors.Is(err, service.ErrInvalidAccessPhrase):
		response.Unauthorized(c, 21001, "wrong access phrase")
	case errors.Is(err, service.ErrSessionInvalid):
		response.Unauthorized(c, 10002, "session expired or invalid, log in again")
	case errors.Is(err, service.ErrUnknownResetTarget):
		response.BadRequest(c, 10001, "unknown reset target")
	default:
		response.InternalError(c)
	}
}
