package http

import (
	"net/http"

	"github.com/mauv0809/card-swap/internal/catalog"
	"github.com/mauv0809/card-swap/internal/config"
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/processor"
	"github.com/mauv0809/card-swap/internal/trade"
)

type Server struct {
	Service        *trade.Service
	Catalog        *catalog.Catalog
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux

	// ValidateIDToken verifies push tokens. Tests replace it to avoid fetching
	// Google's signing keys.
	ValidateIDToken TokenValidator
}
