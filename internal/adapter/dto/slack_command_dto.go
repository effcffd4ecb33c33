package dto

import (
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
)

// SlackCommandDTO represents a parsed Slack slash command.
type SlackCommandDTO struct {
	Command     string // The command name (e.g., "/timereport")
	Text        string // The text after the command
	UserID      string // The user who invoked the command
	UserName    string // The user's display name
	ChannelID   string // The channel where command was invoked
	TeamID      string // The workspace/team ID
	ResponseURL string // URL for delayed responses
}

// NewSlackCommandDTO copies the fields used by the time-report handler.
func NewSlackCommandDTO(sc slack.SlashCommand) *SlackCommandDTO {
	return &SlackCommandDTO{
		Command:     sc.Command,
		Text:        sc.Text,
		UserID:      sc.UserID,
		UserName:    sc.UserName,
		ChannelID:   sc.ChannelID,
		TeamID:      sc.TeamID,
		ResponseURL: strings.TrimSpace(sc.ResponseURL),
	}
}

// ToEntity converts the DTO into the domain representation.
func (d *SlackCommandDTO) ToEntity(invokedAt time.Time) *entity.SlackCommand {
	return &entity.SlackCommand{
		CommandText: d.Command,
		Text:        d.Text,
		UserID:      d.UserID,
		UserName:    d.UserName,
		TeamID:      d.TeamID,
		ResponseURL: d.ResponseURL,
		InvokedAt:   invokedAt,
	}
}
