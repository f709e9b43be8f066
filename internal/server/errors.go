package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	authdomain "github.com/samogera/BrightEco-Pay-sub000/internal/auth/domain"
	billingdomain "github.com/samogera/BrightEco-Pay-sub000/internal/billing/domain"
	dashboarddomain "github.com/samogera/BrightEco-Pay-sub000/internal/dashboard/domain"
	insightdomain "github.com/samogera/BrightEco-Pay-sub000/internal/insight/domain"
	notificationdomain "github.com/samogera/BrightEco-Pay-sub000/internal/notification/domain"
	paymentdomain "github.com/samogera/BrightEco-Pay-sub000/internal/payment/domain"
	telemetrydomain "github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/domain"
)

// APIError is the JSON error envelope every endpoint returns.
type APIError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrUnauthorized       = &APIError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "Authentication required."}
	ErrForbidden          = &APIError{Status: http.StatusForbidden, Code: "forbidden", Message: "You do not have access to this resource."}
	ErrNotFound           = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "Resource not found."}
	ErrTooManyRequests    = &APIError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "Too many requests. Try again shortly."}
	ErrServiceUnavailable = &APIError{Status: http.StatusServiceUnavailable, Code: "service_unavailable", Message: "Service temporarily unavailable."}
)

func invalidRequestError() *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "Request body could not be parsed."}
}

func newValidationError(field, reason, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "validation_failed",
		Message: message,
		Fields:  []FieldError{{Field: field, Reason: reason}},
	}
}

// domainErrorStatus maps service sentinels to HTTP statuses.
var domainErrorStatus = map[error]int{
	authdomain.ErrInvalidCredentials: http.StatusUnauthorized,
	authdomain.ErrSessionExpired:     http.StatusUnauthorized,
	authdomain.ErrUnauthenticated:    http.StatusUnauthorized,
	authdomain.ErrEmailTaken:         http.StatusConflict,
	authdomain.ErrAccountNotFound:    http.StatusNotFound,

	billingdomain.ErrUnauthenticated:      http.StatusUnauthorized,
	billingdomain.ErrInvalidAmount:        http.StatusBadRequest,
	billingdomain.ErrInvalidStatus:        http.StatusBadRequest,
	billingdomain.ErrInvalidMethod:        http.StatusBadRequest,
	billingdomain.ErrLedgerNotInitialized: http.StatusConflict,

	notificationdomain.ErrUnauthenticated: http.StatusUnauthorized,
	notificationdomain.ErrInvalidType:     http.StatusBadRequest,
	notificationdomain.ErrNotFound:        http.StatusNotFound,

	paymentdomain.ErrUnauthenticated:  http.StatusUnauthorized,
	paymentdomain.ErrInvalidPhone:     http.StatusBadRequest,
	paymentdomain.ErrInvalidAmount:    http.StatusBadRequest,
	paymentdomain.ErrProviderNotFound: http.StatusServiceUnavailable,

	telemetrydomain.ErrUnauthenticated:   http.StatusUnauthorized,
	telemetrydomain.ErrInvalidRecordedAt: http.StatusBadRequest,

	insightdomain.ErrModelUnavailable: http.StatusServiceUnavailable,
	insightdomain.ErrNoReadings:       http.StatusBadRequest,

	dashboarddomain.ErrForbidden: http.StatusForbidden,
}

// AbortWithError renders any service error as the API envelope.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, FieldError{
				Field:  strings.ToLower(fe.Field()),
				Reason: fe.Tag(),
			})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": &APIError{
			Status:  http.StatusBadRequest,
			Code:    "validation_failed",
			Message: "One or more fields are invalid.",
			Fields:  fields,
		}})
		return
	}

	for sentinel, status := range domainErrorStatus {
		if errors.Is(err, sentinel) {
			c.AbortWithStatusJSON(status, gin.H{"error": &APIError{
				Status:  status,
				Code:    sentinel.Error(),
				Message: humanMessage(sentinel.Error()),
			}})
			return
		}
	}

	// Schema violations from the model are recoverable: the client gets a
	// fallback message instead of a hard failure.
	if errors.Is(err, insightdomain.ErrInvalidModelOutput) {
		c.AbortWithStatusJSON(http.StatusOK, gin.H{
			"fallback": true,
			"message":  insightdomain.FallbackMessage,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Something went wrong. Try again later.",
	}})
}

func humanMessage(code string) string {
	return strings.ReplaceAll(code, "_", " ")
}
