package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/slack-go/slack"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/adapter/dto"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/usecase/timereport"
)

const (
	// maxBodyBytes bounds slash command payloads, which Slack keeps well under this.
	maxBodyBytes = 1 << 20

	// deliveryTimeout bounds each reply. Replies outlive the request deadline.
	deliveryTimeout = 5 * time.Second

	signatureInvalidMessage = "Slack signing secret not valid"
	deliveryFailedBody      = "Slack response to user failed"
)

var (
	// ErrMissingResponseURL is returned when the payload has no response_url.
	ErrMissingResponseURL = errors.New("missing response_url")

	// ErrInvalidPayload is returned when the body is not a slash command form.
	ErrInvalidPayload = errors.New("invalid slash command payload")
)

// CommandDispatcher runs a parsed command.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, req timereport.Request) *timereport.Result
}

// RequestVerifier checks the request signature.
type RequestVerifier interface {
	Verify(header http.Header, body []byte) error
}

// Replier posts plain text to a response_url.
type Replier interface {
	Respond(ctx context.Context, responseURL, text string) error
}

// ConfirmationSender delivers structured confirmations with the bot token.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, userID string, confirmation *entity.Confirmation) error
}

// SlackCommandsHandler handles /timereport slash command webhooks.
// Commands are processed synchronously; the reply goes to response_url.
type SlackCommandsHandler struct {
	dispatcher CommandDispatcher
	verifier   RequestVerifier
	replier    Replier
	sender     ConfirmationSender // nil when no bot token is configured
	metrics    *observability.Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// SlackCommandsOption configures a SlackCommandsHandler.
type SlackCommandsOption func(*SlackCommandsHandler)

// WithConfirmationSender enables structured add/delete confirmations.
func WithConfirmationSender(sender ConfirmationSender) SlackCommandsOption {
	return func(h *SlackCommandsHandler) {
		h.sender = sender
	}
}

// WithMetrics records command and signature metrics.
func WithMetrics(metrics *observability.Metrics) SlackCommandsOption {
	return func(h *SlackCommandsHandler) {
		h.metrics = metrics
	}
}

// WithTracer wraps each command in a span.
func WithTracer(tracer trace.Tracer) SlackCommandsOption {
	return func(h *SlackCommandsHandler) {
		if tracer != nil {
			h.tracer = tracer
		}
	}
}

// NewSlackCommandsHandler creates a new slash commands handler.
func NewSlackCommandsHandler(
	dispatcher CommandDispatcher,
	verifier RequestVerifier,
	replier Replier,
	logger *slog.Logger,
	opts ...SlackCommandsOption,
) *SlackCommandsHandler {
	h := &SlackCommandsHandler{
		dispatcher: dispatcher,
		verifier:   verifier,
		replier:    replier,
		tracer:     noop.NewTracerProvider().Tracer("handler"),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler interface.
func (h *SlackCommandsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Error("failed to read request body", "error", err.Error())
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	text, err := h.Handle(r.Context(), r.Header, body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// Handle processes one slash command and returns the synchronous response body.
// The body is empty unless structured delivery failed. An error is returned only
// when the payload cannot be answered at all.
func (h *SlackCommandsHandler) Handle(ctx context.Context, header http.Header, body []byte) (string, error) {
	startTime := time.Now()

	cmd, err := parseSlashCommand(ctx, header, body)
	if err != nil {
		h.logger.Error("failed to parse slash command", "error", err.Error())
		return "", err
	}
	if cmd.ResponseURL == "" {
		h.logger.Error("slash command without response_url", "user_id", cmd.UserID)
		return "", ErrMissingResponseURL
	}

	if err := h.verifier.Verify(header, body); err != nil {
		h.metrics.RecordSignatureFailure(ctx)
		h.logger.Warn("slack signature verification failed",
			"error", err.Error(),
			"user_id", cmd.UserID,
			"team_id", cmd.TeamID)
		replyCtx, cancel := deliveryContext(ctx)
		defer cancel()
		if err := h.replier.Respond(replyCtx, cmd.ResponseURL, signatureInvalidMessage); err != nil {
			h.logger.Error("failed to report invalid signature", "error", err.Error())
		}
		return "", nil
	}

	command := cmd.Command()
	action := command.Action()

	ctx, span := h.tracer.Start(ctx, "slack.command",
		trace.WithAttributes(
			attribute.String("timereport.action", action.String()),
			attribute.String("slack.user_id", cmd.UserID),
		))
	defer span.End()

	h.logger.Info("received slash command",
		"command", cmd.CommandText,
		"user_id", cmd.UserID,
		"team_id", cmd.TeamID,
		"action", action.String())

	result := h.dispatcher.Dispatch(ctx, timereport.Request{
		UserID:   cmd.UserID,
		UserName: cmd.UserName,
		Command:  command,
	})

	response := h.deliver(ctx, cmd, result)
	if response != "" {
		span.SetStatus(codes.Error, response)
	}

	elapsed := time.Since(startTime)
	h.metrics.RecordCommand(ctx, action.String(), elapsed)
	h.logger.Info("slash command processed",
		"user_id", cmd.UserID,
		"action", action.String(),
		"response_time_ms", elapsed.Milliseconds())

	return response, nil
}

// deliver sends the result to the user and returns the response body.
func (h *SlackCommandsHandler) deliver(ctx context.Context, cmd *entity.SlackCommand, result *timereport.Result) string {
	ctx, cancel := deliveryContext(ctx)
	defer cancel()

	if result.Confirmation != nil && h.sender != nil {
		if err := h.sender.SendConfirmation(ctx, cmd.UserID, result.Confirmation); err != nil {
			h.logger.Error("failed to send confirmation to user",
				"user_id", cmd.UserID,
				"error", err.Error())
			return deliveryFailedBody
		}
		return ""
	}

	if err := h.replier.Respond(ctx, cmd.ResponseURL, result.Message); err != nil {
		h.logger.Error("failed to send reply", "user_id", cmd.UserID, "error", err.Error())
	}
	return ""
}

// deliveryContext detaches from the request deadline so a slow backend
// never swallows the reply.
func deliveryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
}

// parseSlashCommand decodes the form body with the Slack SDK.
func parseSlashCommand(ctx context.Context, header http.Header, body []byte) (*entity.SlackCommand, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	req.Header = header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sc, err := slack.SlashCommandParse(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return dto.NewSlackCommandDTO(sc).ToEntity(time.Now()), nil
}
