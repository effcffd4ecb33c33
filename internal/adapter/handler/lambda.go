package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaHandler adapts API Gateway proxy events to the slash command handler.
type LambdaHandler struct {
	commands *SlackCommandsHandler
	logger   *slog.Logger
}

// NewLambdaHandler creates a new Lambda entry point.
func NewLambdaHandler(commands *SlackCommandsHandler, logger *slog.Logger) *LambdaHandler {
	return &LambdaHandler{
		commands: commands,
		logger:   logger,
	}
}

// Handle processes a single API Gateway proxy request.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		h.logger.Debug("lambda invocation", "aws_request_id", lc.AwsRequestID)
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			h.logger.Error("failed to decode base64 body", "error", err.Error())
			return textResponse(http.StatusBadRequest, ErrInvalidPayload.Error()), nil
		}
		body = decoded
	}

	text, err := h.commands.Handle(ctx, proxyHeader(req), body)
	if err != nil {
		if errors.Is(err, ErrMissingResponseURL) || errors.Is(err, ErrInvalidPayload) {
			return textResponse(http.StatusBadRequest, err.Error()), nil
		}
		return textResponse(http.StatusInternalServerError, "internal error"), err
	}

	return textResponse(http.StatusOK, text), nil
}

// proxyHeader merges single and multi-value headers into canonical form.
func proxyHeader(req events.APIGatewayProxyRequest) http.Header {
	header := http.Header{}
	for k, values := range req.MultiValueHeaders {
		for _, v := range values {
			header.Add(k, v)
		}
	}
	for k, v := range req.Headers {
		if header.Get(k) == "" {
			header.Set(k, v)
		}
	}
	return header
}

func textResponse(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       body,
	}
}
