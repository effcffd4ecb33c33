package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/app"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Run as an AWS Lambda function behind API Gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(configPath)
		if err != nil {
			return err
		}
		defer application.Shutdown()

		application.Logger().Info("starting lambda handler", "version", app.Version)
		lambda.Start(application.LambdaHandler().Handle)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
