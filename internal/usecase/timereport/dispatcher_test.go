package timereport

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/entity"
	"github.com/qj0r9j0vc2/timereport-bridge/internal/domain/repository"
)

// fakeEvents records every call and answers from canned values.
type fakeEvents struct {
	created []*entity.Event
	deleted []string
	locked  []string
	listed  []string

	listing   *entity.Listing
	listErr   error
	createErr map[string]error // by event date
	deleteErr error
	lockErr   error
}

var _ repository.EventRepository = (*fakeEvents)(nil)

func (f *fakeEvents) Create(_ context.Context, event *entity.Event) error {
	if err := f.createErr[event.EventDate]; err != nil {
		return err
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeEvents) Delete(_ context.Context, _, date string) error {
	f.deleted = append(f.deleted, date)
	return f.deleteErr
}

func (f *fakeEvents) Lock(_ context.Context, _, date string) error {
	f.locked = append(f.locked, date)
	return f.lockErr
}

func (f *fakeEvents) List(_ context.Context, _, dateOrRange string) (*entity.Listing, error) {
	f.listed = append(f.listed, dateOrRange)
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listing == nil {
		return &entity.Listing{}, nil
	}
	return f.listing, nil
}

func (f *fakeEvents) calls() int {
	return len(f.created) + len(f.deleted) + len(f.locked) + len(f.listed)
}

var fixedNow = time.Date(2020, 1, 15, 9, 30, 0, 0, time.UTC)

func newTestDispatcher(events *fakeEvents) *Dispatcher {
	return NewDispatcher(events, Settings{
		ValidReasons: []string{"vab", "sick", "intern", "vacation"},
		MaxRangeDays: 40,
		DefaultHours: 8,
	}, nil, WithClock(func() time.Time { return fixedNow }))
}

func dispatch(d *Dispatcher, text string) *Result {
	return d.Dispatch(context.Background(), Request{
		UserID:   "U1",
		UserName: "alice",
		Command:  entity.ParseCommand(text),
	})
}

func TestDispatcher_EveryActionHasHandlerAndHelp(t *testing.T) {
	d := newTestDispatcher(&fakeEvents{})

	for _, action := range entity.KnownActions() {
		spec, ok := d.actions[action]
		require.True(t, ok, "missing handler for %s", action)
		assert.NotNil(t, spec.run)
		assert.NotEmpty(t, spec.help)
		assert.Contains(t, d.HelpText(), action.String()+" - ")
	}
	assert.Len(t, d.actions, len(entity.KnownActions()))
}

func TestDispatcher_Help(t *testing.T) {
	events := &fakeEvents{}
	d := newTestDispatcher(events)

	for _, text := range []string{"help", "", "   "} {
		result := dispatch(d, text)
		assert.Equal(t, d.HelpText(), result.Message)
		assert.Nil(t, result.Confirmation)
	}
	assert.Zero(t, events.calls())
}

func TestDispatcher_Unsupported(t *testing.T) {
	events := &fakeEvents{}
	d := newTestDispatcher(events)

	assert.Equal(t, "Unsupported action: frobnicate", dispatch(d, "frobnicate 2019-12-28").Message)
	assert.Equal(t, "Unsupported action: ADD", dispatch(d, "ADD vab today").Message)
	assert.Zero(t, events.calls())
}

func TestDispatcher_Edit(t *testing.T) {
	events := &fakeEvents{}
	d := newTestDispatcher(events)

	assert.Equal(t, "Edit not implemented yet", dispatch(d, "edit 2019-12-28").Message)
	assert.Zero(t, events.calls())
}

func TestDispatcher_AddRejections(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"too few", "add vab", "Wrong number of arguments: 2"},
		{"too many", "add vab 2019-12-28 8 extra", "Wrong number of arguments: 5"},
		{"bad reason", "add holiday 2019-12-28", "arg reason: holiday is invalid"},
		{"reason is case sensitive", "add VAB 2019-12-28", "arg reason: VAB is invalid"},
		{"hours not a number", "add vab 2019-12-28 abc", "arg hours: abc is invalid"},
		{"hours too high", "add vab 2019-12-28 24", "arg hours: 24 is invalid"},
		{"hours negative", "add vab 2019-12-28 -1", "arg hours: -1 is invalid"},
		{"bad date", "add vab 2019-13-40", "arg date: 2019-13-40 is invalid"},
		{"garbage date", "add vab yesterday", "arg date: yesterday is invalid"},
		{"reversed range", "add vab 2020-01-03:2019-12-28", "arg date: 2020-01-03:2019-12-28 is not a valid range"},
		{"range too long", "add vab 2020-01-01:2020-02-10", "arg date: 2020-01-01:2020-02-10 is not a valid range"},
		{"range with bad end", "add vab 2020-01-01:nope", "arg date: 2020-01-01:nope is not a valid range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := &fakeEvents{}
			result := dispatch(newTestDispatcher(events), tt.text)

			assert.Equal(t, tt.want, result.Message)
			assert.Nil(t, result.Confirmation)
			assert.Zero(t, events.calls())
		})
	}
}

func TestDispatcher_AddSingleDay(t *testing.T) {
	events := &fakeEvents{}
	result := dispatch(newTestDispatcher(events), "add vab 2019-12-28 4")

	require.Len(t, events.created, 1)
	event := events.created[0]
	assert.Equal(t, "U1", event.UserID)
	assert.Equal(t, "alice", event.UserName)
	assert.Equal(t, "vab", event.Reason)
	assert.Equal(t, "2019-12-28", event.EventDate)
	assert.Equal(t, 4.0, event.Hours)
	assert.False(t, event.Lock)

	assert.Equal(t, []string{"2019-12-28"}, events.listed)
	require.NotNil(t, result.Confirmation)
	assert.Equal(t, entity.ActionAdd, result.Confirmation.Action)
	assert.Equal(t, "2019-12-28", result.Confirmation.Start)
	assert.Equal(t, "2019-12-28", result.Confirmation.End)
	assert.Equal(t, result.Message, result.Confirmation.Summary)
}

func TestDispatcher_AddToday(t *testing.T) {
	events := &fakeEvents{}
	dispatch(newTestDispatcher(events), "add sick today")

	require.Len(t, events.created, 1)
	assert.Equal(t, "2020-01-15", events.created[0].EventDate)
	assert.Equal(t, 8.0, events.created[0].Hours)
}

func TestDispatcher_AddHoursWrittenInRange(t *testing.T) {
	tests := []struct {
		hours string
		want  float64
	}{
		{"8.5", 8},
		{"-0.4", 0},
		{"2.5", 2},
		{"7.6", 8},
	}

	for _, tt := range tests {
		t.Run(tt.hours, func(t *testing.T) {
			events := &fakeEvents{}
			dispatch(newTestDispatcher(events), "add vab 2020-01-10 "+tt.hours)

			require.Len(t, events.created, 1)
			assert.Equal(t, tt.want, events.created[0].Hours)
			assert.GreaterOrEqual(t, events.created[0].Hours, 0.0)
			assert.LessOrEqual(t, events.created[0].Hours, 8.0)
		})
	}
}

func TestDispatcher_AddRange(t *testing.T) {
	events := &fakeEvents{}
	result := dispatch(newTestDispatcher(events), "add vacation 2019-12-28:2020-01-03")

	assert.Equal(t, []string{"2019-12-28:2020-01-03"}, events.listed)
	require.Len(t, events.created, 7)
	assert.Equal(t, "2019-12-28", events.created[0].EventDate)
	assert.Equal(t, "2020-01-01", events.created[4].EventDate)
	assert.Equal(t, "2020-01-03", events.created[6].EventDate)

	require.NotNil(t, result.Confirmation)
	assert.True(t, result.Confirmation.IsRange())
	assert.Equal(t, "2020-01-03", result.Confirmation.End)
	assert.Equal(t, 8.0, result.Confirmation.Hours)
}

func TestDispatcher_AddMaxRange(t *testing.T) {
	events := &fakeEvents{}
	dispatch(newTestDispatcher(events), "add vab 2020-01-01:2020-02-09")

	assert.Len(t, events.created, 40)
}

func TestDispatcher_AddLocked(t *testing.T) {
	events := &fakeEvents{listing: &entity.Listing{Events: []*entity.Event{
		{EventDate: "2019-12-29", Lock: false},
		{EventDate: "2019-12-30", Lock: true},
	}}}

	result := dispatch(newTestDispatcher(events), "add vab 2019-12-28:2020-01-03")

	assert.Equal(t, "One or more of the events are locked", result.Message)
	assert.Nil(t, result.Confirmation)
	assert.Empty(t, events.created)
}

func TestDispatcher_AddLockCheckFails(t *testing.T) {
	events := &fakeEvents{listErr: repository.ErrBackendUnavailable}

	result := dispatch(newTestDispatcher(events), "add vab 2019-12-28")

	assert.Equal(t, "Could not check lock state for 2019-12-28", result.Message)
	assert.Empty(t, events.created)
}

func TestDispatcher_AddPartialFailure(t *testing.T) {
	boom := errors.New("boom")
	events := &fakeEvents{createErr: map[string]error{
		"2019-12-30": boom,
		"2019-12-31": boom,
	}}

	result := dispatch(newTestDispatcher(events), "add vab 2019-12-28:2020-01-01")

	assert.Equal(t, "Added 3 of 5 event(s) for alice (U1); failed: 2019-12-30, 2019-12-31", result.Message)
	assert.Nil(t, result.Confirmation)
	assert.Len(t, events.created, 3)
}

func TestDispatcher_AddTotalFailure(t *testing.T) {
	boom := errors.New("boom")
	events := &fakeEvents{createErr: map[string]error{"2019-12-28": boom, "2019-12-29": boom}}

	result := dispatch(newTestDispatcher(events), "add vab 2019-12-28:2019-12-29")

	assert.Equal(t, "Could not add events for 2019-12-28:2019-12-29", result.Message)
	assert.Nil(t, result.Confirmation)
}

func TestDispatcher_Delete(t *testing.T) {
	events := &fakeEvents{}
	result := dispatch(newTestDispatcher(events), "delete 2019-12-28")

	assert.Equal(t, []string{"2019-12-28"}, events.deleted)
	assert.Equal(t, "all events for alice (U1) on 2019-12-28 has been deleted", result.Message)
	assert.Contains(t, result.Message, "U1")
	require.NotNil(t, result.Confirmation)
	assert.Equal(t, entity.ActionDelete, result.Confirmation.Action)
	assert.Equal(t, "2019-12-28", result.Confirmation.Span())
}

func TestDispatcher_DeleteWithoutUserName(t *testing.T) {
	events := &fakeEvents{}
	result := newTestDispatcher(events).Dispatch(context.Background(), Request{
		UserID:  "U1",
		Command: entity.ParseCommand("delete 2019-12-28"),
	})

	assert.Equal(t, "all events for U1 on 2019-12-28 has been deleted", result.Message)
}

func TestDispatcher_DeleteAndLockRejections(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"delete", "Wrong number of arguments: 1"},
		{"delete 2019-12-28 2019-12-29", "Wrong number of arguments: 3"},
		{"delete 2019-13-40", "2019-13-40: not a valid input for date"},
		{"lock", "Wrong number of arguments: 1"},
		{"lock someday", "someday: not a valid input for date"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			events := &fakeEvents{}
			assert.Equal(t, tt.want, dispatch(newTestDispatcher(events), tt.text).Message)
			assert.Zero(t, events.calls())
		})
	}
}

func TestDispatcher_DeleteFails(t *testing.T) {
	events := &fakeEvents{deleteErr: repository.ErrUnexpectedStatus}
	result := dispatch(newTestDispatcher(events), "delete 2019-12-28")

	assert.Equal(t, "Could not delete 2019-12-28", result.Message)
	assert.Nil(t, result.Confirmation)
	assert.Len(t, events.deleted, 1)
}

func TestDispatcher_Lock(t *testing.T) {
	events := &fakeEvents{}
	result := dispatch(newTestDispatcher(events), "lock 20191228")

	assert.Equal(t, []string{"2019-12-28"}, events.locked)
	assert.Equal(t, "2019-12-28 has been locked for alice (U1)", result.Message)
	assert.Nil(t, result.Confirmation)

	events = &fakeEvents{lockErr: repository.ErrUnexpectedStatus}
	assert.Equal(t, "Could not lock 2019-12-28", dispatch(newTestDispatcher(events), "lock 2019-12-28").Message)
}

func TestDispatcher_List(t *testing.T) {
	raw := []byte(`[{"user_id":"U1","event_date":"2019-12-28","hours":8,"lock":false}]`)
	listing, err := entity.NewListing(raw)
	require.NoError(t, err)

	tests := []struct {
		text    string
		wantArg string
	}{
		{"list", "all"},
		{"list today", "2020-01-15"},
		{"list 2019-12-28", "2019-12-28"},
		{"list 2019-12-01:2019-12-31", "2019-12-01:2019-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			events := &fakeEvents{listing: listing}
			result := dispatch(newTestDispatcher(events), tt.text)

			assert.Equal(t, []string{tt.wantArg}, events.listed)
			assert.True(t, strings.HasPrefix(result.Message, "```"))
			assert.Equal(t, "```"+string(raw)+"```", result.Message)
		})
	}
}

func TestDispatcher_ListEmptyAndFailure(t *testing.T) {
	events := &fakeEvents{listing: &entity.Listing{Raw: []byte("[]")}}
	assert.Equal(t, "Sorry, nothing to list with supplied argument all", dispatch(newTestDispatcher(events), "list").Message)

	events = &fakeEvents{listErr: repository.ErrBackendUnavailable}
	assert.Equal(t, "Could not list events for 2019-12-28", dispatch(newTestDispatcher(events), "list 2019-12-28").Message)
}

func TestDispatcher_TodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	events := &fakeEvents{}
	d := NewDispatcher(events, Settings{ValidReasons: []string{"vab"}, DefaultHours: 8, Location: loc}, nil,
		WithClock(func() time.Time { return time.Date(2020, 1, 15, 20, 0, 0, 0, time.UTC) }))

	dispatch(d, "add vab today")

	require.Len(t, events.created, 1)
	assert.Equal(t, "2020-01-16", events.created[0].EventDate)
}
