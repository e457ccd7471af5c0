package processor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/pubsub"
)

// New creates a new Processor. With a nil pubsub client notifications are
// delivered inline.
func New(notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Processor {
	return &Processor{
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
	}
}

// Dispatch hands every notice to the queue, or delivers it directly when no queue
// is configured. Notices are independent: one failing never stops the others and
// never undoes the listing that produced them.
func (p *Processor) Dispatch(ctx context.Context, notices []notifier.MatchNotification, dryRun bool) DispatchReport {
	var report DispatchReport
	if len(notices) == 0 {
		return report
	}

	startTime := time.Now()
	for _, notice := range notices {
		if p.pubsub != nil && !dryRun {
			err := p.pubsub.SendMessage(ctx, pubsub.EventNotifyMatch, notice)
			if err == nil {
				report.Queued++
				continue
			}
			log.Warn("Failed to queue match notification, delivering inline", "error", err, "recipient", notice.RecipientID)
		}

		if err := p.Deliver(ctx, notice, dryRun); err != nil {
			report.Failed++
			continue
		}
		report.Delivered++
	}
	p.metrics.ObserveDispatchDuration(time.Since(startTime).Seconds())

	log.Info("Match notifications dispatched", "queued", report.Queued, "delivered", report.Delivered, "failed", report.Failed)
	return report
}

// Deliver sends one notice to its recipient.
func (p *Processor) Deliver(ctx context.Context, notice notifier.MatchNotification, dryRun bool) error {
	if err := p.notifier.SendMatchNotification(ctx, notice, dryRun); err != nil {
		log.Error("Failed to deliver match notification", "error", err, "recipient", notice.RecipientID, "search_id", notice.SearchID)
		return err
	}
	return nil
}
