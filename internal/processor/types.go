package processor

import (
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/pubsub"
)

// Processor fans match notifications out to their recipients.
type Processor struct {
	pubsub   pubsub.PubSubClient
	notifier notifier.Notifier
	metrics  metrics.Metrics
}

// DispatchReport counts what happened to each notification of one fan-out.
type DispatchReport struct {
	Queued    int `json:"queued"`
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}
