package timereport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/logger"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/repository"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/validate"
)

// Settings holds the command rules loaded from configuration.
type Settings struct {
	ValidReasons []string
	MaxRangeDays int
	DefaultHours float64
	Location     *time.Location
}

// Request is a single parsed slash command.
type Request struct {
	UserID   string
	UserName string
	Command  entity.Command
}

// Result is the outcome of a dispatched command.
// Confirmation is set only for successful add and delete commands.
type Result struct {
	Message      string
	Confirmation *entity.Confirmation
}

func message(format string, args ...any) *Result {
	return &Result{Message: fmt.Sprintf(format, args...)}
}

type actionFunc func(ctx context.Context, req Request) *Result

type actionSpec struct {
	run  actionFunc
	help string
}

// Dispatcher routes commands to their action handlers.
type Dispatcher struct {
	events   repository.EventRepository
	settings Settings
	logger   logger.Logger
	now      func() time.Time
	actions  map[entity.Action]actionSpec
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the time source used to resolve "today".
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// NewDispatcher creates a dispatcher backed by the given event repository.
func NewDispatcher(events repository.EventRepository, settings Settings, log logger.Logger, opts ...Option) *Dispatcher {
	if settings.MaxRangeDays <= 0 {
		settings.MaxRangeDays = validate.DefaultMaxRangeDays
	}
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if log == nil {
		log = logger.Nop{}
	}

	d := &Dispatcher{
		events:   events,
		settings: settings,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.actions = map[entity.Action]actionSpec{
		entity.ActionAdd:    {run: d.add, help: "Add new post in timereport"},
		entity.ActionEdit:   {run: d.edit, help: "Not implemented yet"},
		entity.ActionDelete: {run: d.delete, help: "Delete post in timereport"},
		entity.ActionList:   {run: d.list, help: "List posts in timereport"},
		entity.ActionLock:   {run: d.lock, help: "Lock posts in timereport"},
		entity.ActionHelp:   {run: d.help, help: "Provide this helpful output"},
	}

	return d
}

// Dispatch runs the command and returns exactly one result. It never fails:
// input and backend errors are turned into chat messages.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) *Result {
	action := req.Command.Action()

	spec, ok := d.actions[action]
	if !ok {
		d.logger.Info("unsupported action", "verb", req.Command.Verb(), "user_id", req.UserID)
		return message("Unsupported action: %s", req.Command.Verb())
	}

	d.logger.Debug("dispatching command",
		"action", action.String(),
		"user_id", req.UserID,
		"args", len(req.Command.Args()),
	)
	return spec.run(ctx, req)
}

// HelpText lists every supported verb with its description.
func (d *Dispatcher) HelpText() string {
	var b strings.Builder
	b.WriteString("Perform action.\n\nSupported actions are:\n")
	for _, action := range entity.KnownActions() {
		fmt.Fprintf(&b, "%s - %s\n", action, d.actions[action].help)
	}
	return b.String()
}

func (d *Dispatcher) help(_ context.Context, _ Request) *Result {
	return &Result{Message: d.HelpText()}
}

func (d *Dispatcher) edit(_ context.Context, _ Request) *Result {
	return message("Edit not implemented yet")
}

// today returns the current calendar date in the configured location.
func (d *Dispatcher) today() time.Time {
	return d.now().In(d.settings.Location)
}

// userLabel names the user in replies. The Slack user id is always included.
func userLabel(req Request) string {
	if req.UserName != "" && req.UserName != req.UserID {
		return fmt.Sprintf("%s (%s)", req.UserName, req.UserID)
	}
	return req.UserID
}
