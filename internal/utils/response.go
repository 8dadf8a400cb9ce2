// internal/utils/response.go
package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
)

// Envelope codes shared by every endpoint
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeMalformedBody  = "MALFORMED_BODY"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
	CodePrintFailed    = "PRINT_FAILED"
	CodeUnknown        = "UNKNOWN_ERROR"
	requestIDKey       = "request_id"
	validationDataName = "validation_errors"
)

// APIResponse represents standard API response structure
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError represents error information
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorCode ties a sentinel error to the code and status it is reported with
type ErrorCode struct {
	Err    error
	Status int
	Code   string
}

// ErrorCodes is an ordered lookup table; the first matching entry wins
type ErrorCodes []ErrorCode

// Lookup finds the entry err wraps
func (codes ErrorCodes) Lookup(err error) (ErrorCode, bool) {
	if err == nil {
		return ErrorCode{}, false
	}
	for _, code := range codes {
		if errors.Is(err, code.Err) {
			return code, true
		}
	}
	return ErrorCode{}, false
}

// SuccessResponse sends a successful response
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: getRequestID(c),
	})
}

// ErrorResponse sends an error response coded by HTTP status
func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	ErrorResponseWithCode(c, statusCode, StatusCode(statusCode), message, err)
}

// DomainErrorResponse reports err with the code and status of its table entry,
// falling back to statusCode when err matches none.
func DomainErrorResponse(c *gin.Context, codes ErrorCodes, statusCode int, message string, err error) {
	if entry, ok := codes.Lookup(err); ok {
		if entry.Status != 0 {
			statusCode = entry.Status
		}
		ErrorResponseWithCode(c, statusCode, entry.Code, message, err)
		return
	}
	ErrorResponse(c, statusCode, message, err)
}

// ErrorResponseWithCode sends an error response with an explicit code
func ErrorResponseWithCode(c *gin.Context, statusCode int, code, message string, err error) {
	apiError := &APIError{
		Code:    code,
		Message: message,
	}
	if err != nil {
		apiError.Details = err.Error()
	}

	c.JSON(statusCode, APIResponse{
		Success:   false,
		Message:   message,
		Error:     apiError,
		Timestamp: time.Now(),
		RequestID: getRequestID(c),
	})
}

// ValidationErrorResponse reports request fields that failed binding.
// code is CodeValidation for rule failures and CodeMalformedBody for
// bodies that could not be decoded.
func ValidationErrorResponse(c *gin.Context, code string, fields map[string]string) {
	message := "Request validation failed"
	if code == CodeMalformedBody {
		message = "Request body could not be decoded"
	}

	c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Message: "Validation failed",
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Data:      gin.H{validationDataName: fields},
		Timestamp: time.Now(),
		RequestID: getRequestID(c),
	})
}

func getRequestID(c *gin.Context) string {
	if requestID, ok := c.Get(requestIDKey); ok {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// StatusCode returns the envelope code for an HTTP status
func StatusCode(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusInternalServerError:
		return CodeInternal
	case http.StatusBadGateway:
		return "PRINTER_UNREACHABLE"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return CodeUnknown
	}
}
