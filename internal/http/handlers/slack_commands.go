package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/catalog"
	"github.com/mauv0809/card-swap/internal/conversation"
	"github.com/mauv0809/card-swap/internal/notifier"
	"github.com/mauv0809/card-swap/internal/processor"
	"github.com/mauv0809/card-swap/internal/trade"
)

const cardLookupLimit = 10

// OfferCommandHandler handles /offer. With a rarity in front of the card name the offer
// is recorded right away. A bare card name asks for the rarity first, and no text at
// all walks the user through set, rarity and name.
func OfferCommandHandler(svc *trade.Service, cat *catalog.Catalog, n notifier.Notifier, proc *processor.Processor) http.HandlerFunc {
	return listingCommandHandler(trade.KindOffer, svc, cat, n, proc)
}

// SearchCommandHandler handles /search the same way as /offer.
func SearchCommandHandler(svc *trade.Service, cat *catalog.Catalog, n notifier.Notifier, proc *processor.Processor) http.HandlerFunc {
	return listingCommandHandler(trade.KindSearch, svc, cat, n, proc)
}

func listingCommandHandler(kind trade.Kind, svc *trade.Service, cat *catalog.Catalog, n notifier.Notifier, proc *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		user := slackUser(r)
		text := r.FormValue("text")
		log.Info("Received listing command", "kind", kind, "user", user.ID, "text", text)

		if strings.TrimSpace(text) == "" {
			startFlow(w, r, kind, user, svc, cat, n)
			return
		}

		rarity, name, ok := card.SplitRarityPrefix(text)
		if !ok {
			flow, err := conversation.StartWithCard(kind, name)
			if err != nil {
				respondWithSlackError(w, n, err)
				return
			}
			touchUser(r.Context(), svc, user)
			msg, err := n.FormatRarityPickerResponse(flow)
			if err != nil {
				http.Error(w, "Failed to format rarity picker", http.StatusInternalServerError)
				log.Error("Failed to format rarity picker", "error", err)
				return
			}
			respondWithSlackMsg(w, msg)
			return
		}

		msg, err := submitListing(r.Context(), kind, user, name, rarity.String(), svc, n, proc, IsDryRunFromContext(r))
		if err != nil {
			log.Warn("Listing command failed", "kind", kind, "user", user.ID, "error", err)
			respondWithSlackError(w, n, err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// startFlow opens the guided flow with a set picker built from the reference data.
func startFlow(w http.ResponseWriter, r *http.Request, kind trade.Kind, user trade.User, svc *trade.Service, cat *catalog.Catalog, n notifier.Notifier) {
	sets, err := cat.Sets(r.Context())
	if err != nil {
		log.Warn("Failed to load card sets", "error", err)
		respondWithSlackError(w, n, err)
		return
	}
	touchUser(r.Context(), svc, user)

	var msg any
	if len(sets) == 0 {
		msg, err = n.FormatErrorResponse(fmt.Sprintf("No card sets are imported yet. Use /%s <rarity> <card name> instead.", kind))
	} else {
		msg, err = n.FormatSetPickerResponse(conversation.Start(kind), sets)
	}
	if err != nil {
		http.Error(w, "Failed to format set picker", http.StatusInternalServerError)
		log.Error("Failed to format set picker", "error", err)
		return
	}
	respondWithSlackMsg(w, msg)
}

// submitListing records the listing and formats the reply. A new offer also notifies
// the owners of the searches it satisfies.
func submitListing(ctx context.Context, kind trade.Kind, user trade.User, name, rarity string, svc *trade.Service, n notifier.Notifier, proc *processor.Processor, dryRun bool) (any, error) {
	if kind == trade.KindOffer {
		res, err := svc.SubmitOffer(ctx, user, name, rarity)
		if err != nil {
			if res != nil {
				return storedWithoutMatches(n, kind, res.OfferID, err)
			}
			return nil, err
		}
		proc.Dispatch(ctx, notifier.ForOffer(user, res), dryRun)
		return n.FormatOfferResponse(res)
	}
	res, err := svc.SubmitSearch(ctx, user, name, rarity)
	if err != nil {
		if res != nil {
			return storedWithoutMatches(n, kind, res.SearchID, err)
		}
		return nil, err
	}
	return n.FormatSearchResponse(res)
}

// storedWithoutMatches tells the user the listing exists even though its matches
// could not be loaded, so it is not posted twice.
func storedWithoutMatches(n notifier.Notifier, kind trade.Kind, id string, err error) (any, error) {
	log.Warn("Listing stored but matching failed", "kind", kind, "id", id, "error", err)
	return n.FormatErrorResponse(fmt.Sprintf(
		"Your %s was saved (id %s) but matches could not be checked right now. Run /matches later instead of posting it again.",
		kind, id))
}

// MyOffersCommandHandler handles /my-offers.
func MyOffersCommandHandler(svc *trade.Service, n notifier.Notifier) http.HandlerFunc {
	return myListingsCommandHandler(trade.KindOffer, svc, n)
}

// MySearchesCommandHandler handles /my-searches.
func MySearchesCommandHandler(svc *trade.Service, n notifier.Notifier) http.HandlerFunc {
	return myListingsCommandHandler(trade.KindSearch, svc, n)
}

func myListingsCommandHandler(kind trade.Kind, svc *trade.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		user := slackUser(r)
		touchUser(r.Context(), svc, user)

		var (
			listings []trade.Listing
			err      error
		)
		if kind == trade.KindOffer {
			listings, err = svc.ListOffers(r.Context(), user.ID)
		} else {
			listings, err = svc.ListSearches(r.Context(), user.ID)
		}
		if err != nil {
			log.Warn("Failed to list listings", "kind", kind, "user", user.ID, "error", err)
			respondWithSlackError(w, n, err)
			return
		}

		msg, err := n.FormatListingsResponse(kind, listings)
		if err != nil {
			http.Error(w, "Failed to format listings", http.StatusInternalServerError)
			log.Error("Failed to format listings", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// AvailableCardsCommandHandler handles /cards.
func AvailableCardsCommandHandler(svc *trade.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		touchUser(r.Context(), svc, slackUser(r))

		rows, err := svc.AvailableCards(r.Context())
		if err != nil {
			log.Warn("Failed to list available cards", "error", err)
			respondWithSlackError(w, n, err)
			return
		}
		msg, err := n.FormatAvailableCardsResponse(rows)
		if err != nil {
			http.Error(w, "Failed to format available cards", http.StatusInternalServerError)
			log.Error("Failed to format available cards", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// MatchesCommandHandler handles /matches.
func MatchesCommandHandler(svc *trade.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		user := slackUser(r)
		touchUser(r.Context(), svc, user)

		matches, err := svc.UserMatches(r.Context(), user.ID)
		if err != nil {
			log.Warn("Failed to find user matches", "user", user.ID, "error", err)
			respondWithSlackError(w, n, err)
			return
		}
		msg, err := n.FormatUserMatchesResponse(matches)
		if err != nil {
			http.Error(w, "Failed to format matches", http.StatusInternalServerError)
			log.Error("Failed to format matches", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// CompleteCommandHandler handles /complete <search_id> <offer_id>.
func CompleteCommandHandler(svc *trade.Service, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		touchUser(r.Context(), svc, slackUser(r))

		fields := strings.Fields(r.FormValue("text"))
		if len(fields) != 2 {
			msg, err := n.FormatErrorResponse("Usage: /complete <search_id> <offer_id>")
			if err != nil {
				http.Error(w, "Failed to format error", http.StatusInternalServerError)
				return
			}
			respondWithSlackMsg(w, msg)
			return
		}

		res, err := svc.CompleteTrade(r.Context(), fields[0], fields[1])
		if err != nil {
			log.Warn("Failed to complete trade", "search_id", fields[0], "offer_id", fields[1], "error", err)
			respondWithSlackError(w, n, err)
			return
		}
		msg, err := n.FormatCompletionResponse(res)
		if err != nil {
			http.Error(w, "Failed to format completion", http.StatusInternalServerError)
			log.Error("Failed to format completion", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// CardLookupCommandHandler handles /card-lookup <query> with fuzzy suggestions from the
// reference data.
func CardLookupCommandHandler(cat *catalog.Catalog, n notifier.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Error parsing form", http.StatusBadRequest)
			return
		}
		query := strings.TrimSpace(r.FormValue("text"))
		if query == "" {
			respondWithSlackError(w, n, fmt.Errorf("%w: empty query", trade.ErrInvalidInput))
			return
		}

		defs, err := cat.Suggest(r.Context(), query, cardLookupLimit)
		if err != nil {
			log.Warn("Card lookup failed", "query", query, "error", err)
			respondWithSlackError(w, n, err)
			return
		}
		msg, err := n.FormatCardLookupResponse(query, defs)
		if err != nil {
			http.Error(w, "Failed to format card lookup", http.StatusInternalServerError)
			log.Error("Failed to format card lookup", "error", err)
			return
		}
		respondWithSlackMsg(w, msg)
	}
}

// touchUser refreshes the user's last-active time. Failing to do so never blocks
// the command itself.
func touchUser(ctx context.Context, svc *trade.Service, user trade.User) {
	if user.ID == "" {
		return
	}
	if err := svc.TouchUser(ctx, user); err != nil {
		log.Warn("Failed to record user activity", "user", user.ID, "error", err)
	}
}
