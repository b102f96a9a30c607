package main

import (
	"context"
	"log"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"table-ops-api/internal/dispatcher"
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

// handler accepts the bare operation event, for direct invocation
// without a gateway in front. Failures propagate to the platform as
// function errors.
func handler(ctx context.Context, req dispatcher.Request) (any, error) {
	return container.Dispatcher.Dispatch(ctx, &req)
}

func main() {
	awslambda.Start(handler)
}
