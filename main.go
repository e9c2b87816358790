package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
)

var errMissingS3URL = errors.New("s3 url is required as an argument")

func main() {
	if err := run(context.Background(), os.Args); err != nil {
		L().Fatal().Err(err).Msg("exiting")
	}
}

// run loads the configuration and either hands the handler to the Lambda
// runtime or processes the s3:// URL given as the first argument.
func run(ctx context.Context, args []string) error {
	config, err := LoadConfigFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	InitLogger(config.LogLevel)

	h, err := NewHandler(config)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		lambda.Start(h.HandleLambdaEvent)
		return nil
	}

	if len(args) < 2 {
		return errMissingS3URL
	}
	return h.HandleS3URL(ctx, args[1])
}
