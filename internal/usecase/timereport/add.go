package timereport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/validate"
)

const (
	addMinTokens = 3 // add reason date
	addMaxTokens = 4 // add reason date hours
)

// add submits one event per day: add <reason> <date|start:end|today> [hours]
func (d *Dispatcher) add(ctx context.Context, req Request) *Result {
	tokens := req.Command.Tokens()
	if !validate.CommandArity(tokens, addMinTokens, addMaxTokens) {
		return message("Wrong number of arguments: %d", len(tokens))
	}

	reason := tokens[1]
	if !validate.Reason(reason, d.settings.ValidReasons) {
		return message("arg reason: %s is invalid", reason)
	}

	hours := d.settings.DefaultHours
	if len(tokens) == addMaxTokens {
		h, err := validate.ParseHours(tokens[3])
		if err != nil {
			return message("arg hours: %s is invalid", tokens[3])
		}
		hours = h
	}

	start, end, result := d.parseSpan(tokens[2])
	if result != nil {
		return result
	}
	span := spanString(start, end)

	// Nothing is written if the span cannot be checked or contains a locked day.
	existing, err := d.events.List(ctx, req.UserID, span)
	if err != nil {
		d.logger.Error("failed to check lock state",
			"user_id", req.UserID,
			"span", span,
			"error", err,
		)
		return message("Could not check lock state for %s", span)
	}
	if existing.HasLocked() {
		d.logger.Info("add rejected, span contains locked events", "user_id", req.UserID, "span", span)
		return message("One or more of the events are locked")
	}

	days := validate.Days(start, end)
	var failed []string
	for _, day := range days {
		event := entity.NewEvent(req.UserID, req.UserName, reason, day, hours)
		if err := d.events.Create(ctx, event); err != nil {
			d.logger.Error("failed to create event",
				"user_id", req.UserID,
				"event_date", event.EventDate,
				"error", err,
			)
			failed = append(failed, event.EventDate)
		}
	}

	user := userLabel(req)
	switch {
	case len(failed) == len(days):
		return message("Could not add events for %s", span)
	case len(failed) > 0:
		return message("Added %d of %d event(s) for %s; failed: %s",
			len(days)-len(failed), len(days), user, strings.Join(failed, ", "))
	}

	d.logger.Info("events added",
		"user_id", req.UserID,
		"reason", reason,
		"span", span,
		"count", len(days),
	)

	confirmation := &entity.Confirmation{
		Action:   entity.ActionAdd,
		UserID:   req.UserID,
		UserName: req.UserName,
		Reason:   reason,
		Start:    start.Format(entity.DateLayout),
		End:      end.Format(entity.DateLayout),
		Hours:    hours,
		Summary:  fmt.Sprintf("Added %d event(s) for %s: %s %s", len(days), user, reason, span),
	}
	return &Result{Message: confirmation.Summary, Confirmation: confirmation}
}

// parseSpan resolves a single date, "today" or a start:end range.
// A non-nil result is the rejection message.
func (d *Dispatcher) parseSpan(arg string) (start, end time.Time, result *Result) {
	first, last, isRange := validate.SplitRange(arg)
	if !isRange {
		day, err := validate.ResolveDate(arg, d.today())
		if err != nil {
			return time.Time{}, time.Time{}, message("arg date: %s is invalid", arg)
		}
		return day, day, nil
	}

	invalid := message("arg date: %s is not a valid range", arg)
	start, err := validate.ResolveDate(first, d.today())
	if err != nil {
		return time.Time{}, time.Time{}, invalid
	}
	end, err = validate.ResolveDate(last, d.today())
	if err != nil {
		return time.Time{}, time.Time{}, invalid
	}
	if !validate.RangeWithin(start, end, d.settings.MaxRangeDays) {
		return time.Time{}, time.Time{}, invalid
	}
	return start, end, nil
}

// spanString formats a span the way the backend expects it.
func spanString(start, end time.Time) string {
	if start.Equal(end) {
		return start.Format(entity.DateLayout)
	}
	return start.Format(entity.DateLayout) + validate.RangeSeparator + end.Format(entity.DateLayout)
}
