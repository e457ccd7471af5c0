package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api     slackClient
	metrics metrics.Metrics
	timeout time.Duration
}

// NewNotifier creates a new Notifier.
func NewNotifier(token string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return NewNotifierWithAPI(api, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:     api,
		metrics: metrics,
		timeout: 10 * time.Second,
	}
}

// sendMessage posts to a channel or, when channelID is a user id, to the bot's
// direct message conversation with that user.
func (s *Notifier) sendMessage(ctx context.Context, channelID string, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", channelID, "message", string(jsonMsg))
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	channel, timestamp, err := s.api.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionText(message.Text, false),
	)
	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channel, "timestamp", timestamp)
	return channel, timestamp, nil
}

// SendMatchNotification sends the search owner a direct message about a new offer.
func (s *Notifier) SendMatchNotification(ctx context.Context, notice notifier.MatchNotification, dryRun bool) error {
	if notice.RecipientID == "" {
		return fmt.Errorf("match notification without recipient")
	}
	msg := s.formatMatchNotification(notice)
	_, _, err := s.sendMessage(ctx, notice.RecipientID, msg, dryRun)
	return err
}
