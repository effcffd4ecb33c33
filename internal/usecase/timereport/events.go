package timereport

import (
	"context"
	"fmt"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/validate"
)

// listAll is the backend keyword for an unbounded listing.
const listAll = "all"

// delete removes every event of the user on one date: delete <date>
func (d *Dispatcher) delete(ctx context.Context, req Request) *Result {
	date, result := d.singleDate(req)
	if result != nil {
		return result
	}

	if err := d.events.Delete(ctx, req.UserID, date); err != nil {
		d.logger.Error("failed to delete events", "user_id", req.UserID, "date", date, "error", err)
		return message("Could not delete %s", date)
	}

	summary := fmt.Sprintf("all events for %s on %s has been deleted", userLabel(req), date)
	d.logger.Info("events deleted", "user_id", req.UserID, "date", date)

	return &Result{
		Message: summary,
		Confirmation: &entity.Confirmation{
			Action:   entity.ActionDelete,
			UserID:   req.UserID,
			UserName: req.UserName,
			Start:    date,
			End:      date,
			Summary:  summary,
		},
	}
}

// lock makes the user's events on one date immutable: lock <date>
func (d *Dispatcher) lock(ctx context.Context, req Request) *Result {
	date, result := d.singleDate(req)
	if result != nil {
		return result
	}

	if err := d.events.Lock(ctx, req.UserID, date); err != nil {
		d.logger.Error("failed to lock events", "user_id", req.UserID, "date", date, "error", err)
		return message("Could not lock %s", date)
	}

	d.logger.Info("events locked", "user_id", req.UserID, "date", date)
	return message("%s has been locked for %s", date, userLabel(req))
}

// list shows the raw backend listing: list [today|date|start:end]
func (d *Dispatcher) list(ctx context.Context, req Request) *Result {
	arg, ok := req.Command.Arg(0)
	switch {
	case !ok:
		arg = listAll
	case arg == validate.Today:
		arg = d.today().Format(entity.DateLayout)
	}

	listing, err := d.events.List(ctx, req.UserID, arg)
	if err != nil {
		d.logger.Error("failed to list events", "user_id", req.UserID, "arg", arg, "error", err)
		return message("Could not list events for %s", arg)
	}
	if listing.IsEmpty() {
		d.logger.Debug("list returned nothing", "user_id", req.UserID, "arg", arg)
		return message("Sorry, nothing to list with supplied argument %s", arg)
	}

	return message("```%s```", listing.Raw)
}

// singleDate extracts and validates the date argument shared by delete and lock.
// The date is normalized to the backend layout.
func (d *Dispatcher) singleDate(req Request) (string, *Result) {
	tokens := req.Command.Tokens()
	if !validate.CommandArity(tokens, 2, 2) {
		return "", message("Wrong number of arguments: %d", len(tokens))
	}

	day, err := validate.ParseDate(tokens[1])
	if err != nil {
		return "", message("%s: not a valid input for date", tokens[1])
	}
	return day.Format(entity.DateLayout), nil
}
