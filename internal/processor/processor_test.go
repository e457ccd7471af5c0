package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notices(recipients ...string) []notifier.MatchNotification {
	out := make([]notifier.MatchNotification, 0, len(recipients))
	for _, r := range recipients {
		out = append(out, notifier.MatchNotification{
			RecipientID: r, CounterpartyHandle: "@alice", CardName: "Mew", Rarity: card.OneStar, SearchID: "s-" + r, OfferID: "o1",
		})
	}
	return out
}

func TestProcessor_Dispatch(t *testing.T) {
	t.Run("inline delivery without a queue", func(t *testing.T) {
		notif := notifier.NewMock()
		metr := metrics.NewMock()
		p := New(notif, metr, nil)

		report := p.Dispatch(context.Background(), notices("B", "C"), false)

		assert.Equal(t, DispatchReport{Delivered: 2}, report)
		require.Len(t, notif.Sent(), 2)
		assert.Equal(t, "B", notif.Sent()[0].RecipientID)
		assert.Len(t, metr.DispatchDurations(), 1)
	})

	t.Run("a failing recipient does not stop the others", func(t *testing.T) {
		notif := notifier.NewMock()
		notif.SendMatchNotificationFunc = func(ctx context.Context, n notifier.MatchNotification, dryRun bool) error {
			if n.RecipientID == "C" {
				return errors.New("cannot_dm_bot")
			}
			return nil
		}
		p := New(notif, metrics.NewMock(), nil)

		report := p.Dispatch(context.Background(), notices("B", "C", "D"), false)

		assert.Equal(t, DispatchReport{Delivered: 2, Failed: 1}, report)
		assert.Len(t, notif.Sent(), 3, "every recipient is attempted")
	})

	t.Run("queued through pubsub", func(t *testing.T) {
		notif := notifier.NewMock()
		ps := pubsub.NewMock()
		p := New(notif, metrics.NewMock(), ps)

		report := p.Dispatch(context.Background(), notices("B", "C"), false)

		assert.Equal(t, DispatchReport{Queued: 2}, report)
		require.Len(t, ps.SendMessageCalls, 2)
		assert.Equal(t, pubsub.EventNotifyMatch, ps.SendMessageCalls[0].Topic)
		assert.Empty(t, notif.Sent(), "delivery happens when the push arrives")
	})

	t.Run("publish failure falls back to inline delivery", func(t *testing.T) {
		notif := notifier.NewMock()
		ps := pubsub.NewMock()
		ps.SendMessageFunc = func(topic pubsub.EventType, data any) error {
			return errors.New("topic not found")
		}
		p := New(notif, metrics.NewMock(), ps)

		report := p.Dispatch(context.Background(), notices("B"), false)

		assert.Equal(t, DispatchReport{Delivered: 1}, report)
		assert.Len(t, notif.Sent(), 1)
	})

	t.Run("dry run skips the queue", func(t *testing.T) {
		notif := notifier.NewMock()
		ps := pubsub.NewMock()
		p := New(notif, metrics.NewMock(), ps)

		p.Dispatch(context.Background(), notices("B"), true)

		assert.Empty(t, ps.SendMessageCalls)
		require.Len(t, notif.SendMatchNotificationCalls, 1)
		assert.True(t, notif.SendMatchNotificationCalls[0].DryRun)
	})

	t.Run("nothing to send", func(t *testing.T) {
		metr := metrics.NewMock()
		p := New(notifier.NewMock(), metr, nil)

		assert.Equal(t, DispatchReport{}, p.Dispatch(context.Background(), nil, false))
		assert.Empty(t, metr.DispatchDurations())
	})
}
