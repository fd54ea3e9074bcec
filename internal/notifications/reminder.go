package notifications

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	reminderTitle = "How are you today?"
	reminderBody  = "Take a second to record today's score."
	channelID     = "daily_reminder"
)

// Sender delivers a push notification to one device
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// TodayChecker reports the current day key and whether it already has an entry
type TodayChecker interface {
	Today() string
	HasToday() bool
}

// FCMSender sends notifications through Firebase Cloud Messaging
type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

func (s *FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ChannelID: channelID,
				Priority:  messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}

	if _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

// Reminder nudges the device when the day has no recorded score yet
type Reminder struct {
	journal TodayChecker
	sender  Sender
	token   string
	logger  *zap.SugaredLogger
	cron    *cron.Cron
}

// NewReminder builds a reminder; sender may be nil, in which case the
// reminder only logs.
func NewReminder(journal TodayChecker, sender Sender, token string, loc *time.Location, logger *zap.SugaredLogger) *Reminder {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Reminder{
		journal: journal,
		sender:  sender,
		token:   token,
		logger:  logger,
		cron:    cron.New(cron.WithLocation(loc)),
	}
}

// Schedule registers the reminder under a standard five-field cron spec
func (r *Reminder) Schedule(spec string) error {
	if _, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			r.logger.Errorw("daily reminder failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return nil
}

func (r *Reminder) Start() {
	r.cron.Start()
}

// Stop halts the scheduler and waits for a running reminder to finish
func (r *Reminder) Stop() {
	<-r.cron.Stop().Done()
}

// Run sends the reminder if today is still empty. It reports whether a
// notification was sent.
func (r *Reminder) Run(ctx context.Context) (bool, error) {
	day := r.journal.Today()
	if r.journal.HasToday() {
		r.logger.Debugw("score already recorded, skipping reminder", "day", day)
		return false, nil
	}

	if r.sender == nil || r.token == "" {
		r.logger.Infow("no score recorded yet today", "day", day)
		return false, nil
	}

	data := map[string]string{
		"type": "daily_reminder",
		"date": day,
	}
	if err := r.sender.Send(ctx, r.token, reminderTitle, reminderBody, data); err != nil {
		return false, err
	}

	r.logger.Infow("daily reminder sent", "day", day)
	return true, nil
}
