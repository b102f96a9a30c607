package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"table-ops-api/pkg/lambda"
	"table-ops-api/pkg/server"
)

var container *server.Container

func init() {
	var err error
	container, err = lambda.GetConnectionManager().GetContainer()
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
}

// handler converts the API Gateway proxy event into an operation request,
// dispatches it and maps the result back onto the proxy response.
func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := lambda.ParseOperationEvent(event)
	if err != nil {
		return lambda.BadRequestResponse(err), nil
	}

	result, err := container.Dispatcher.Dispatch(ctx, req)
	if err != nil {
		return lambda.ErrorProxyResponse(err), nil
	}

	return lambda.SuccessResponse(result)
}

func main() {
	awslambda.Start(handler)
}
