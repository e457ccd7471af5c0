package trade

import (
	"fmt"
	"time"

	"github.com/mauv0809/card-swap/internal/card"
)

// Kind distinguishes the two sides of a trade.
type Kind string

const (
	KindOffer  Kind = "offer"
	KindSearch Kind = "search"
)

// Opposite returns the side a listing of this kind is matched against.
func (k Kind) Opposite() Kind {
	if k == KindOffer {
		return KindSearch
	}
	return KindOffer
}

// User is a chat user known to the system.
type User struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	LastActive  time.Time `json:"last_active"`
}

// ContactHandle is how the user is shown to other traders: "@handle" when a handle is
// known, otherwise the display name, otherwise a placeholder built from the id.
func (u User) ContactHandle() string {
	switch {
	case u.Handle != "":
		return "@" + u.Handle
	case u.DisplayName != "":
		return u.DisplayName
	default:
		return fmt.Sprintf("User_%s", u.ID)
	}
}

// Listing is an offer or a search. CardName is the lowercased matching key and
// DisplayName keeps the name as the user typed it.
type Listing struct {
	ID          string      `json:"id"`
	Kind        Kind        `json:"kind"`
	UserID      string      `json:"user_id"`
	CardName    string      `json:"card_name"`
	DisplayName string      `json:"display_name"`
	Rarity      card.Rarity `json:"rarity"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OwnedListing is a listing enriched with its owner.
type OwnedListing struct {
	Listing
	Owner User `json:"owner"`
}

// CardListing is one row of the "all available cards" listing.
type CardListing struct {
	CardName    string      `json:"card_name"`
	DisplayName string      `json:"display_name"`
	Rarity      card.Rarity `json:"rarity"`
	Owners      []string    `json:"owners"`
}

// UserMatch pairs one of a user's searches with an offer for the same card.
type UserMatch struct {
	SearchID           string      `json:"search_id"`
	OfferID            string      `json:"offer_id"`
	CardName           string      `json:"card_name"`
	Rarity             card.Rarity `json:"rarity"`
	CounterpartyID     string      `json:"counterparty_id"`
	CounterpartyHandle string      `json:"counterparty_handle"`
}

// CardSet is reference data for an expansion.
type CardSet struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CardDefinition is reference data for a single printed card.
type CardDefinition struct {
	ID         string      `json:"id"`
	SetCode    string      `json:"set_code"`
	CardName   string      `json:"card_name"`
	Rarity     card.Rarity `json:"rarity"`
	RarityIcon string      `json:"rarity_icon"`
}

// OfferResult is returned by SubmitOffer.
type OfferResult struct {
	OfferID         string         `json:"offer_id"`
	CardName        string         `json:"card_name"`
	Rarity          card.Rarity    `json:"rarity"`
	MatchedSearches []OwnedListing `json:"matched_searches"`
}

// SearchResult is returned by SubmitSearch.
type SearchResult struct {
	SearchID      string         `json:"search_id"`
	CardName      string         `json:"card_name"`
	Rarity        card.Rarity    `json:"rarity"`
	MatchedOffers []OwnedListing `json:"matched_offers"`
}

// CompletionResult is returned by CompleteTrade.
type CompletionResult struct {
	SearchID         string `json:"search_id"`
	OfferID          string `json:"offer_id"`
	AlreadyCompleted bool   `json:"already_completed"`
}
