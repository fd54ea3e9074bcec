package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJournal struct {
	today    string
	hasToday bool
}

func (s stubJournal) Today() string  { return s.today }
func (s stubJournal) HasToday() bool { return s.hasToday }

type recordingSender struct {
	calls []map[string]string
	token string
	err   error
}

func (r *recordingSender) Send(_ context.Context, token, title, body string, data map[string]string) error {
	r.token = token
	r.calls = append(r.calls, data)
	return r.err
}

func TestReminderSendsWhenTodayIsEmpty(t *testing.T) {
	sender := &recordingSender{}
	r := NewReminder(stubJournal{today: "2024-06-01"}, sender, "device-token", time.UTC, nil)

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, sender.calls, 1)
	assert.Equal(t, "device-token", sender.token)
	assert.Equal(t, "2024-06-01", sender.calls[0]["date"])
	assert.Equal(t, "daily_reminder", sender.calls[0]["type"])
}

func TestReminderSkipsRecordedDay(t *testing.T) {
	sender := &recordingSender{}
	r := NewReminder(stubJournal{today: "2024-06-01", hasToday: true}, sender, "device-token", time.UTC, nil)

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Empty(t, sender.calls)
}

func TestReminderWithoutSenderOnlyLogs(t *testing.T) {
	r := NewReminder(stubJournal{today: "2024-06-01"}, nil, "", time.UTC, nil)

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestReminderPropagatesSendError(t *testing.T) {
	sender := &recordingSender{err: errors.New("unregistered token")}
	r := NewReminder(stubJournal{today: "2024-06-01"}, sender, "device-token", time.UTC, nil)

	sent, err := r.Run(context.Background())
	assert.ErrorContains(t, err, "unregistered token")
	assert.False(t, sent)
}

func TestReminderSchedule(t *testing.T) {
	r := NewReminder(stubJournal{}, nil, "", time.UTC, nil)

	require.NoError(t, r.Schedule("0 20 * * *"))
	assert.Error(t, r.Schedule("every evening"))

	r.Start()
	r.Stop()
}
