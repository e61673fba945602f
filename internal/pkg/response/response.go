package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/medcamp/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/medcamp/pkg/errors"
)

// APIResponse is the envelope for every JSON body the API returns.
type APIResponse struct {
	Success    bool        `json:"success" example:"true"`
	StatusCode int         `json:"statusCode" example:"200"`
	Message    string      `json:"message,omitempty" example:"ok"`
	Code       string      `json:"code,omitempty" example:"FORBIDDEN"`
	Data       interface{} `json:"data,omitempty"`
}

// PageData wraps a list with its pagination metadata.
type PageData struct {
	Items interface{} `json:"items"`
	pagination.Meta
}

// Success sends a 200 OK response with data and an optional message.
func Success(c *gin.Context, data interface{}, message ...string) {
	send(c, http.StatusOK, data, message...)
}

// Created sends a 201 Created response.
func Created(c *gin.Context, data interface{}, message ...string) {
	send(c, http.StatusCreated, data, message...)
}

// Paginated sends one page of items.
func Paginated(c *gin.Context, items interface{}, page pagination.Params, total int64) {
	send(c, http.StatusOK, PageData{Items: items, Meta: page.Meta(total)})
}

func send(c *gin.Context, status int, data interface{}, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}

	// data is always present on success, even when nil
	c.JSON(status, gin.H{
		"success":    true,
		"statusCode": status,
		"message":    msg,
		"data":       data,
	})
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	code := ""
	if len(errorCode) > 0 {
		code = errorCode[0]
	}

	c.JSON(statusCode, APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	})
}

func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

func Unauthorized(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnauthorized, message, errorCode...)
}

func Forbidden(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusForbidden, message, errorCode...)
}

func NotFound(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusNotFound, message, errorCode...)
}

func Conflict(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusConflict, message, errorCode...)
}

func TooManyRequests(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusTooManyRequests, message, errorCode...)
}

func InternalServerError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusInternalServerError, message, errorCode...)
}

func BadGateway(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadGateway, message, errorCode...)
}

func ServiceUnavailable(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusServiceUnavailable, message, errorCode...)
}

// InvalidID handles a malformed path identifier.
func InvalidID(c *gin.Context) {
	BadRequest(c, "Invalid id format", "INVALID_ID")
}

func DatabaseError(c *gin.Context, message string) {
	InternalServerError(c, message, "DATABASE_ERROR")
}

func AuthenticationError(c *gin.Context, message string) {
	Unauthorized(c, message, "AUTH_FAILED")
}

func AuthorizationError(c *gin.Context, message string) {
	Forbidden(c, message, "FORBIDDEN")
}

// FromError maps a sentinel from pkg/errors onto an HTTP status. Anything unknown
// is reported as a database failure with the fallback message.
func FromError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		NotFound(c, "Resource not found", "NOT_FOUND")
	case errors.Is(err, apperrors.ErrDuplicate):
		Conflict(c, "Resource already exists", "DUPLICATE")
	case errors.Is(err, apperrors.ErrForbidden):
		AuthorizationError(c, "Access denied")
	case errors.Is(err, apperrors.ErrUnauthorized):
		AuthenticationError(c, "Authentication failed")
	case errors.Is(err, apperrors.ErrBadRequest):
		BadRequest(c, err.Error(), "BAD_REQUEST")
	case errors.Is(err, apperrors.ErrUpstream):
		BadGateway(c, fallback, "UPSTREAM_ERROR")
	default:
		DatabaseError(c, fallback)
	}
}
