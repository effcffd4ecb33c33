package entity

import "time"

// SlackCommand represents a /timereport invocation from Slack.
type SlackCommand struct {
	CommandText string // e.g., "/timereport"
	Text        string // e.g., "add vab today 4"

	// User context
	UserID   string // Slack user ID (U123ABC)
	UserName string // Slack username for display

	// Team context
	TeamID string

	// Response mechanism
	ResponseURL string    // one-shot URL for the reply (valid 30 minutes)
	InvokedAt   time.Time // When command was received
}

// Command tokenizes the command text.
// A command without text or without a user falls back to help.
func (c *SlackCommand) Command() Command {
	if c.UserID == "" {
		return ParseCommand("help")
	}
	return ParseCommand(c.Text)
}
