package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/job-tracker/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer      = "Internal server error"
	errValidationFailed    = "Validation failed"
	errApplicationNotFound = "Application not found"
	errUserNotFound        = "User not found"
	errUnauthorized        = "Unauthorized"
	errVersionConflict     = "Application was modified by another request. Reload and try again."
)

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Message string               `json:"message"`
	Errors  []fieldErrorResponse `json:"errors"`
}

// errorStatuses maps domain errors to HTTP status and public message.
// Checked in order with errors.Is.
var errorStatuses = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrDuplicateEmail, http.StatusBadRequest, "User already exists with this email"},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password"},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, errUnauthorized},
	{domain.ErrTokenExpired, http.StatusUnauthorized, errUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized, errUnauthorized},
	{domain.ErrUserNotFound, http.StatusNotFound, errUserNotFound},
	{domain.ErrApplicationNotFound, http.StatusNotFound, errApplicationNotFound},
	{domain.ErrVersionConflict, http.StatusConflict, errVersionConflict},
}

// writeError renders err using the table above. Unknown errors are logged
// and answered with a generic 500.
func writeError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp := validationErrorResponse{
			Message: errValidationFailed,
			Errors:  make([]fieldErrorResponse, len(verr.Fields)),
		}
		for i, f := range verr.Fields {
			resp.Errors[i] = fieldErrorResponse{Field: f.Field, Message: f.Message}
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"message": e.message})
			return
		}
	}

	logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": errInternalServer})
}
