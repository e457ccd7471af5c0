package http

import (
	"context"
	"net/http"

	"github.com/mauv0809/card-swap/internal/catalog"
	"github.com/mauv0809/card-swap/internal/config"
	"github.com/mauv0809/card-swap/internal/http/handlers"
	"github.com/mauv0809/card-swap/internal/metrics"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/processor"
	"github.com/mauv0809/card-swap/internal/trade"
	"google.golang.org/api/idtoken"
)

func NewServer(service *trade.Service, cat *catalog.Catalog, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor) *Server {
	server := &Server{
		Service:         service,
		Catalog:         cat,
		Metrics:         metricsSvc,
		MetricsHandler:  metricsHandler,
		Cfg:             cfg,
		Notifier:        notifier,
		Processor:       processor,
		Router:          http.NewServeMux(),
		ValidateIDToken: idtoken.Validate,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Slack routes verify the request signature, API routes the shared token and
	// push routes the Pub/Sub OIDC token.
	timeout := timeoutMiddleware(s.Cfg.RequestTimeout)
	signed := slackSignatureMiddleware(s.Cfg.Slack.SigningSecret)
	authorized := apiTokenMiddleware(s.Cfg.APIToken)
	pushed := pushAuthMiddleware(s.Cfg.Push, func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return s.ValidateIDToken(ctx, token, audience)
	})
	slackRoute := func(pattern string, h http.Handler) {
		s.Router.Handle(pattern, Chain(h, paramsMiddleware, signed, timeout))
	}
	apiRoute := func(pattern string, h http.Handler) {
		s.Router.Handle(pattern, Chain(h, paramsMiddleware, authorized, timeout))
	}
	route := func(pattern string, h http.Handler) {
		s.Router.Handle(pattern, Chain(h, paramsMiddleware, timeout))
	}

	s.Router.Handle("/metrics", s.MetricsHandler)
	route("/health", handlers.HealthCheckHandler())

	slackRoute("POST /slack/command/offer", handlers.OfferCommandHandler(s.Service, s.Catalog, s.Notifier, s.Processor))
	slackRoute("POST /slack/command/search", handlers.SearchCommandHandler(s.Service, s.Catalog, s.Notifier, s.Processor))
	slackRoute("POST /slack/command/my-offers", handlers.MyOffersCommandHandler(s.Service, s.Notifier))
	slackRoute("POST /slack/command/my-searches", handlers.MySearchesCommandHandler(s.Service, s.Notifier))
	slackRoute("POST /slack/command/cards", handlers.AvailableCardsCommandHandler(s.Service, s.Notifier))
	slackRoute("POST /slack/command/matches", handlers.MatchesCommandHandler(s.Service, s.Notifier))
	slackRoute("POST /slack/command/complete", handlers.CompleteCommandHandler(s.Service, s.Notifier))
	slackRoute("POST /slack/command/card-lookup", handlers.CardLookupCommandHandler(s.Catalog, s.Notifier))
	slackRoute("POST /slack/interactions", handlers.InteractionsHandler(s.Service, s.Notifier, s.Processor))

	apiRoute("POST /api/offers", handlers.CreateOfferHandler(s.Service, s.Processor))
	apiRoute("POST /api/searches", handlers.CreateSearchHandler(s.Service))
	apiRoute("GET /api/users/{id}", handlers.GetUserHandler(s.Service))
	apiRoute("GET /api/users/{id}/offers", handlers.ListUserOffersHandler(s.Service))
	apiRoute("GET /api/users/{id}/searches", handlers.ListUserSearchesHandler(s.Service))
	apiRoute("GET /api/users/{id}/matches", handlers.ListUserMatchesHandler(s.Service))
	apiRoute("GET /api/cards", handlers.ListAvailableCardsHandler(s.Service))
	apiRoute("POST /api/trades/complete", handlers.CompleteTradeHandler(s.Service))
	apiRoute("GET /api/sets", handlers.ListSetsHandler(s.Catalog))
	apiRoute("GET /api/sets/{code}/cards", handlers.ListSetCardsHandler(s.Catalog))
	apiRoute("POST /api/catalog/refresh", handlers.RefreshCatalogHandler(s.Catalog))

	s.Router.Handle("POST /pubsub/notify-match", Chain(handlers.NotifyMatchHandler(s.Processor), paramsMiddleware, pushed, timeout))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
