package handlers

import (
	"errors"
	"net/http"

	"github.com/aws/smithy-go"

	"table-ops-api/internal/dispatcher"
	"table-ops-api/internal/tableservice"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusForError maps dispatch failures to HTTP status codes. The
// dispatcher itself performs no translation; this is the gateway-facing
// boundary's concern only.
func StatusForError(err error) int {
	if dispatcher.IsUnrecognizedOperation(err) {
		return http.StatusBadRequest
	}
	if tableservice.IsNoTableBound(err) || tableservice.IsMissingArgument(err) {
		return http.StatusBadRequest
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ResourceNotFoundException":
			return http.StatusNotFound
		case "ConditionalCheckFailedException":
			return http.StatusConflict
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
			return http.StatusTooManyRequests
		case "ValidationException":
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}
