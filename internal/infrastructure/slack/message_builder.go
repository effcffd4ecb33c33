package slack

import (
	"fmt"
	"strconv"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
)

// Attachment color codes
const (
	colorAdded   = "#2EB67D" // Green
	colorDeleted = "#E01E5A" // Red
	colorDefault = "#36C5F0" // Blue
)

// MessageBuilder constructs the structured confirmation attachments.
type MessageBuilder struct {
	footer string
}

// NewMessageBuilder creates a new message builder.
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{footer: "timereport"}
}

// BuildConfirmation returns the attachment for an add or delete confirmation.
func (b *MessageBuilder) BuildConfirmation(c *entity.Confirmation) slack.Attachment {
	switch c.Action {
	case entity.ActionAdd:
		return b.buildSubmitted(c)
	case entity.ActionDelete:
		return b.buildDeleted(c)
	default:
		return slack.Attachment{
			Color:    colorDefault,
			Fallback: c.Summary,
			Text:     c.Summary,
			Footer:   b.footer,
		}
	}
}

// buildSubmitted lists the reported reason, span and hours.
func (b *MessageBuilder) buildSubmitted(c *entity.Confirmation) slack.Attachment {
	fields := []slack.AttachmentField{
		{Title: "User", Value: b.userLabel(c), Short: true},
		{Title: "Reason", Value: c.Reason, Short: true},
	}
	if c.IsRange() {
		fields = append(fields,
			slack.AttachmentField{Title: "Start", Value: c.Start, Short: true},
			slack.AttachmentField{Title: "End", Value: c.End, Short: true},
		)
	} else {
		fields = append(fields, slack.AttachmentField{Title: "Date", Value: c.Start, Short: true})
	}
	fields = append(fields, slack.AttachmentField{
		Title: "Hours",
		Value: strconv.FormatFloat(c.Hours, 'f', -1, 64),
		Short: true,
	})

	return slack.Attachment{
		Color:    colorAdded,
		Title:    "Time report submitted",
		Fallback: c.Summary,
		Fields:   fields,
		Footer:   b.footer,
	}
}

func (b *MessageBuilder) buildDeleted(c *entity.Confirmation) slack.Attachment {
	return slack.Attachment{
		Color:    colorDeleted,
		Title:    "Time report deleted",
		Fallback: c.Summary,
		Fields: []slack.AttachmentField{
			{Title: "User", Value: b.userLabel(c), Short: true},
			{Title: "Date", Value: c.Span(), Short: true},
		},
		Footer: b.footer,
	}
}

// userLabel prefers a mention so the message links to the user profile.
func (b *MessageBuilder) userLabel(c *entity.Confirmation) string {
	if c.UserID != "" {
		return fmt.Sprintf("<@%s>", c.UserID)
	}
	return c.UserName
}
