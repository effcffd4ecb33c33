package entity

import (
	"encoding/json"
	"time"
)

// DateLayout is the canonical wire format for event dates.
const DateLayout = "2006-01-02"

// Event is a single time-report entry for one user on one day.
type Event struct {
	UserID    string  `json:"user_id"`
	UserName  string  `json:"user_name"`
	Reason    string  `json:"reason"`
	EventDate string  `json:"event_date"` // YYYY-MM-DD
	Hours     float64 `json:"hours"`
	Lock      bool    `json:"lock"`
}

// NewEvent creates an unlocked event for the given day.
func NewEvent(userID, userName, reason string, date time.Time, hours float64) *Event {
	return &Event{
		UserID:    userID,
		UserName:  userName,
		Reason:    reason,
		EventDate: date.Format(DateLayout),
		Hours:     hours,
	}
}

// IsLocked returns true if the event can no longer be changed.
func (e *Event) IsLocked() bool {
	return e.Lock
}

// Listing is the result of a backend event query.
// Raw keeps the backend response body so it can be shown to the user as-is.
type Listing struct {
	Events []*Event
	Raw    []byte
}

// NewListing decodes a backend response body into a listing.
// An empty body is treated as an empty listing.
func NewListing(raw []byte) (*Listing, error) {
	listing := &Listing{Raw: raw}
	if len(raw) == 0 {
		return listing, nil
	}
	if err := json.Unmarshal(raw, &listing.Events); err != nil {
		return nil, err
	}
	return listing, nil
}

// IsEmpty returns true if the listing holds no events.
func (l *Listing) IsEmpty() bool {
	return l == nil || len(l.Events) == 0
}

// HasLocked returns true if any event in the listing is locked.
func (l *Listing) HasLocked() bool {
	if l == nil {
		return false
	}
	for _, e := range l.Events {
		if e.IsLocked() {
			return true
		}
	}
	return false
}
