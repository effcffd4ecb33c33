package slack

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/logger"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/infrastructure/observability"
)

// ErrDeliveryFailed is returned when a structured message could not be delivered.
var ErrDeliveryFailed = errors.New("slack delivery failed")

// Client wraps the Slack Web API for bot-authenticated messages.
type Client struct {
	api            *slack.Client
	messageBuilder *MessageBuilder
	metrics        *observability.Metrics
	logger         logger.Logger
}

// NewClient creates a new Slack bot client.
// apiURL overrides the Slack API endpoint (used by tests).
func NewClient(botToken string, metrics *observability.Metrics, log logger.Logger, apiURL ...string) *Client {
	var api *slack.Client
	if len(apiURL) > 0 && apiURL[0] != "" {
		api = slack.New(botToken, slack.OptionAPIURL(apiURL[0]))
	} else {
		api = slack.New(botToken)
	}
	if log == nil {
		log = logger.Nop{}
	}

	return &Client{
		api:            api,
		messageBuilder: NewMessageBuilder(),
		metrics:        metrics,
		logger:         log,
	}
}

// SendConfirmation posts a confirmation attachment directly to the user.
func (c *Client) SendConfirmation(ctx context.Context, userID string, confirmation *entity.Confirmation) error {
	attachment := c.messageBuilder.BuildConfirmation(confirmation)

	options := []slack.MsgOption{
		slack.MsgOptionText(confirmation.Summary, false),
		slack.MsgOptionAttachments(attachment),
	}

	// Posting to a user ID delivers the message in the bot's DM with that user.
	_, _, err := c.api.PostMessageContext(ctx, userID, options...)
	if err != nil {
		c.metrics.RecordDelivery(ctx, "bot", false)
		c.logger.Error("failed to send response to slack",
			"user_id", userID,
			"error", err,
		)
		return categorizeSlackError(err, "posting confirmation")
	}

	c.metrics.RecordDelivery(ctx, "bot", true)
	c.logger.Debug("confirmation sent", "user_id", userID, "action", confirmation.Action.String())
	return nil
}

// categorizeSlackError wraps Slack API errors in ErrDeliveryFailed with a short cause.
func categorizeSlackError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %s: network error: %v", ErrDeliveryFailed, operation, err)
	}

	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %s: status %d", ErrDeliveryFailed, operation, statusErr.Code)
	}

	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return fmt.Errorf("%w: %s: %s", ErrDeliveryFailed, operation, slackErr.Err)
	}

	return fmt.Errorf("%w: %s: %v", ErrDeliveryFailed, operation, err)
}
