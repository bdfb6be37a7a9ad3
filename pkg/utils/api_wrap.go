package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

func RespondJSON(c *gin.Context, code int, body interface{}) {
	c.JSON(code, body)
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{
		Error:   message,
		TraceID: c.GetString("trace_id"),
	})
}

func RespondErrorDetails(c *gin.Context, code int, message string, details string) {
	c.JSON(code, ErrorResponse{
		Error:   message,
		Details: details,
		TraceID: c.GetString("trace_id"),
	})
}

func HandleServiceError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, ErrMissingSmsFields):
		RespondError(c, http.StatusBadRequest, "Missing sender or message")
	case errors.Is(err, ErrMissingVerificationFields),
		errors.Is(err, ErrInvalidUserID),
		errors.Is(err, ErrInvalidPlanID),
		errors.Is(err, ErrPlanRequired),
		errors.Is(err, ErrAmountRequired):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, "Plan not found or inactive")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrSmsStoreFailed):
		log.Error("sms storage failed", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondErrorDetails(c, http.StatusInternalServerError, "Failed to save SMS", causeOf(err))
	default:
		log.Error("unhandled service error", zap.Error(err), zap.String("trace_id", c.GetString("trace_id")))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func causeOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Cause != nil {
		return se.Cause.Error()
	}
	return err.Error()
}
