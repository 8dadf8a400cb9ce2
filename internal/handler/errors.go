// internal/handler/errors.go
package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"receipt-service/internal/discovery"
	"receipt-service/internal/relay"
	"receipt-service/internal/repository"
	"receipt-service/internal/service"
	"receipt-service/internal/transport"
	"receipt-service/internal/utils"
)

// receiptErrorCodes names the receipt domain failures in the response envelope
var receiptErrorCodes = utils.ErrorCodes{
	{Err: service.ErrUnsupportedPaper, Status: http.StatusBadRequest, Code: "UNSUPPORTED_PAPER"},
	{Err: service.ErrUnsupportedFormat, Status: http.StatusBadRequest, Code: "UNSUPPORTED_FORMAT"},
	{Err: transport.ErrUnknownMethod, Status: http.StatusBadRequest, Code: "UNSUPPORTED_METHOD"},
	{Err: transport.ErrMissingTarget, Status: http.StatusBadRequest, Code: "MISSING_PRINTER_TARGET"},
	{Err: transport.ErrRadioUnavailable, Status: http.StatusServiceUnavailable, Code: "BLUETOOTH_UNAVAILABLE"},
	{Err: transport.ErrNoPeripheral, Status: http.StatusBadGateway, Code: "PRINTER_NOT_FOUND"},
	{Err: transport.ErrNoWritableChannel, Status: http.StatusBadGateway, Code: "PRINTER_NOT_WRITABLE"},
	{Err: transport.ErrNotConnected, Status: http.StatusBadGateway, Code: "PRINTER_NOT_CONNECTED"},
	{Err: transport.ErrSurfaceUnavailable, Status: http.StatusBadGateway, Code: "PRINT_WINDOW_UNAVAILABLE"},
	{Err: relay.ErrNoAgent, Status: http.StatusBadGateway, Code: "RELAY_AGENT_OFFLINE"},
	{Err: relay.ErrAgentDisconnected, Status: http.StatusBadGateway, Code: "RELAY_AGENT_OFFLINE"},
	{Err: discovery.ErrUnknownScanner, Status: http.StatusBadRequest, Code: "UNKNOWN_SCANNER"},
	{Err: discovery.ErrScannerUnavailable, Status: http.StatusServiceUnavailable, Code: "SCANNER_UNAVAILABLE"},
	{Err: repository.ErrJobNotFound, Status: http.StatusNotFound, Code: "JOB_NOT_FOUND"},
}

// respondError reports err with its domain code, or with status when it has none
func respondError(c *gin.Context, status int, message string, err error) {
	utils.DomainErrorResponse(c, receiptErrorCodes, status, message, err)
}

// failureCode names a failed print result for the 200 print response
func failureCode(result transport.Result) string {
	if result.Success {
		return ""
	}
	if entry, ok := receiptErrorCodes.Lookup(result.Cause); ok {
		return entry.Code
	}
	return utils.CodePrintFailed
}

// respondBindingError reports a request that could not be bound
func respondBindingError(c *gin.Context, err error) {
	code, fields := bindingErrors(err)
	utils.ValidationErrorResponse(c, code, fields)
}

// bindingErrors flattens gin binding failures into field messages
func bindingErrors(err error) (string, map[string]string) {
	fields := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fieldErr := range validationErrs {
			fields[fieldErr.Namespace()] = fmt.Sprintf("failed on '%s' rule", fieldErr.Tag())
		}
		return utils.CodeValidation, fields
	}

	fields["body"] = err.Error()
	return utils.CodeMalformedBody, fields
}
