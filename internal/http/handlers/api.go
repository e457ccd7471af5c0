package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/catalog"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/processor"
	"github.com/mauv0809/card-swap/internal/trade"
)

// ListingRequest is the body of POST /api/offers and POST /api/searches.
type ListingRequest struct {
	User     trade.User `json:"user"`
	CardName string     `json:"card_name"`
	Rarity   string     `json:"rarity"`
}

// CompleteRequest is the body of POST /api/trades/complete.
type CompleteRequest struct {
	SearchID string `json:"search_id"`
	OfferID  string `json:"offer_id"`
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %w", trade.ErrInvalidInput, err)
	}
	return nil
}

func CreateOfferHandler(svc *trade.Service, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ListingRequest
		if err := decodeBody(r, &req); err != nil {
			respondAPIError(w, err)
			return
		}
		res, err := svc.SubmitOffer(r.Context(), req.User, req.CardName, req.Rarity)
		if err != nil {
			if res != nil {
				respondStoredListingError(w, err, res.OfferID)
				return
			}
			respondAPIError(w, err)
			return
		}
		report := proc.Dispatch(r.Context(), notifier.ForOffer(req.User, res), IsDryRunFromContext(r))
		log.Debug("Offer created through API", "offer_id", res.OfferID, "queued", report.Queued, "delivered", report.Delivered)
		respondJSON(w, http.StatusCreated, res)
	}
}

func CreateSearchHandler(svc *trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ListingRequest
		if err := decodeBody(r, &req); err != nil {
			respondAPIError(w, err)
			return
		}
		res, err := svc.SubmitSearch(r.Context(), req.User, req.CardName, req.Rarity)
		if err != nil {
			if res != nil {
				respondStoredListingError(w, err, res.SearchID)
				return
			}
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, res)
	}
}

func GetUserHandler(svc *trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.GetUser(r.Context(), r.PathValue("id"))
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, user)
	}
}

func ListUserOffersHandler(svc *trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := svc.ListOffers(r.Context(), r.PathValue("id"))
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, listings)
	}
}

func ListUserSearchesHandler(svc *trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := svc.ListSearches(r.Context(), r.PathValue("id"))
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, listings)
	}
}

func ListUserMatchesHandler(svc *trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := svc.UserMatches(r.Context(), r.PathValue("id"))
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func ListAvailableCardsHandler(svc *trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.AvailableCards(r.Context())
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

func CompleteTradeHandler(svc *trade.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CompleteRequest
		if err := decodeBody(r, &req); err != nil {
			respondAPIError(w, err)
			return
		}
		res, err := svc.CompleteTrade(r.Context(), req.SearchID, req.OfferID)
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func ListSetsHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sets, err := cat.Sets(r.Context())
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, sets)
	}
}

func ListSetCardsHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defs, err := cat.Cards(r.Context(), r.PathValue("code"))
		if err != nil {
			respondAPIError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, defs)
	}
}

// RefreshCatalogHandler drops cached reference data, typically after an import.
func RefreshCatalogHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat.Invalidate()
		log.Info("Catalog cache invalidated")
		w.WriteHeader(http.StatusNoContent)
	}
}
