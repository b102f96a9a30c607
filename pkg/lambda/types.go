// Package lambda holds the glue between API Gateway proxy events and
// operation requests for the Lambda entrypoints.
package lambda

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"table-ops-api/internal/dispatcher"
	"table-ops-api/internal/handlers"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// ParseOperationEvent extracts the operation request from an API Gateway
// proxy event body.
func ParseOperationEvent(event events.APIGatewayProxyRequest) (*dispatcher.Request, error) {
	var req dispatcher.Request
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return &req, nil
}

// SuccessResponse wraps a dispatch result as a 200 proxy response.
func SuccessResponse(result any) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    jsonHeaders,
		Body:       string(body),
	}, nil
}

// ErrorProxyResponse wraps a dispatch failure as a non-success proxy
// response, reusing the HTTP boundary's status mapping.
func ErrorProxyResponse(err error) events.APIGatewayProxyResponse {
	status := handlers.StatusForError(err)
	body, _ := json.Marshal(handlers.ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
	})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    jsonHeaders,
		Body:       string(body),
	}
}

// BadRequestResponse reports a malformed event body.
func BadRequestResponse(err error) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(handlers.ErrorResponse{
		Error:   http.StatusText(http.StatusBadRequest),
		Message: err.Error(),
	})
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusBadRequest,
		Headers:    jsonHeaders,
		Body:       string(body),
	}
}
