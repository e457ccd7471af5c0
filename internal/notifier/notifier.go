package notifier

import (
	"context"

	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/conversation"
	"github.com/mauv0809/card-swap/internal/trade"
)

// MatchNotification tells the owner of a search that an offer for the same card
// has been posted.
type MatchNotification struct {
	RecipientID        string      `msgpack:"recipient_id" json:"recipient_id"`
	CounterpartyHandle string      `msgpack:"counterparty_handle" json:"counterparty_handle"`
	CardName           string      `msgpack:"card_name" json:"card_name"`
	Rarity             card.Rarity `msgpack:"rarity" json:"rarity"`
	SearchID           string      `msgpack:"search_id" json:"search_id"`
	OfferID            string      `msgpack:"offer_id" json:"offer_id"`
}

// ForOffer builds one notification per search the offer matched.
func ForOffer(offerer trade.User, res *trade.OfferResult) []MatchNotification {
	notices := make([]MatchNotification, 0, len(res.MatchedSearches))
	for _, s := range res.MatchedSearches {
		notices = append(notices, MatchNotification{
			RecipientID:        s.UserID,
			CounterpartyHandle: offerer.ContactHandle(),
			CardName:           res.CardName,
			Rarity:             res.Rarity,
			SearchID:           s.ID,
			OfferID:            res.OfferID,
		})
	}
	return notices
}

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// Direct message to the owner of a matched search
	SendMatchNotification(ctx context.Context, notice MatchNotification, dryRun bool) error

	// For formatting responses for slash commands and interactions
	FormatOfferResponse(res *trade.OfferResult) (any, error)
	FormatSearchResponse(res *trade.SearchResult) (any, error)
	FormatListingsResponse(kind trade.Kind, listings []trade.Listing) (any, error)
	FormatAvailableCardsResponse(rows []trade.CardListing) (any, error)
	FormatUserMatchesResponse(matches []trade.UserMatch) (any, error)
	FormatCompletionResponse(res *trade.CompletionResult) (any, error)
	FormatSetPickerResponse(flow conversation.Flow, sets []trade.CardSet) (any, error)
	FormatRarityPickerResponse(flow conversation.Flow) (any, error)
	FormatCardNamePromptResponse(flow conversation.Flow) (any, error)
	FormatCardLookupResponse(query string, defs []trade.CardDefinition) (any, error)
	FormatErrorResponse(message string) (any, error)
}
