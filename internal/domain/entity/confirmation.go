package entity

import "fmt"

// Confirmation describes a successful add or delete for a structured reply.
type Confirmation struct {
	Action   Action
	UserID   string
	UserName string
	Reason   string // empty for deletes
	Start    string
	End      string
	Hours    float64
	Summary  string // plain text fallback
}

// IsRange returns true if the confirmation covers more than one day.
func (c *Confirmation) IsRange() bool {
	return c.End != "" && c.End != c.Start
}

// Span returns "start" or "start:end".
func (c *Confirmation) Span() string {
	if c.IsRange() {
		return fmt.Sprintf("%s:%s", c.Start, c.End)
	}
	return c.Start
}
