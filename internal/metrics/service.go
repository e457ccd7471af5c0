package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ListingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cardswap_listings_created_total",
			Help: "The total number of offers and searches recorded.",
		}, []string{"kind"}),
		MatchesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardswap_matches_found_total",
			Help: "The total number of counter-party listings found when a listing was submitted.",
		}),
		TradesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardswap_trades_completed_total",
			Help: "The total number of trades completed.",
		}),
		DuplicateCompletions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardswap_duplicate_completions_total",
			Help: "The total number of completion requests for pairs that were already gone.",
		}),
		DispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cardswap_notification_dispatch_duration_seconds",
			Help:    "The duration of a notification fan-out.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardswap_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cardswap_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cardswap_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ListingsCreated,
		s.MatchesFound,
		s.TradesCompleted,
		s.DuplicateCompletions,
		s.DispatchDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncListingsCreated(kind string) {
	s.ListingsCreated.WithLabelValues(kind).Inc()
}

func (s *Service) AddMatchesFound(count int) {
	s.MatchesFound.Add(float64(count))
}

func (s *Service) IncTradesCompleted() {
	s.TradesCompleted.Inc()
}

func (s *Service) IncDuplicateCompletions() {
	s.DuplicateCompletions.Inc()
}

func (s *Service) ObserveDispatchDuration(duration float64) {
	s.DispatchDuration.Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
