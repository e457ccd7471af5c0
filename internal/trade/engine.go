package trade

import (
	"context"
	"fmt"
	"strings"

	"github.com/mauv0809/card-swap/internal/card"
)

// Engine answers matching questions over a Store. It keeps no state of its own:
// whether a listing is matched is always derived from what the store holds now.
type Engine struct {
	store Store
}

// NewEngine creates a match engine backed by store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// FindMatchingSearches returns the searches that an offer for (cardName, rarity) would satisfy.
func (e *Engine) FindMatchingSearches(ctx context.Context, cardName string, rarity card.Rarity) ([]OwnedListing, error) {
	return e.FindCounterparts(ctx, KindOffer, cardName, rarity)
}

// FindMatchingOffers returns the offers that satisfy a search for (cardName, rarity).
func (e *Engine) FindMatchingOffers(ctx context.Context, cardName string, rarity card.Rarity) ([]OwnedListing, error) {
	return e.FindCounterparts(ctx, KindSearch, cardName, rarity)
}

// FindCounterparts returns the listings of the other side that match a listing of
// the given kind.
func (e *Engine) FindCounterparts(ctx context.Context, kind Kind, cardName string, rarity card.Rarity) ([]OwnedListing, error) {
	return e.findByKey(ctx, kind.Opposite(), cardName, rarity)
}

func (e *Engine) findByKey(ctx context.Context, kind Kind, cardName string, rarity card.Rarity) ([]OwnedListing, error) {
	if !rarity.Valid() {
		return nil, fmt.Errorf("find %ss: %w: %q", kind, ErrInvalidRarity, rarity)
	}
	listings, err := e.store.FindByKey(ctx, kind, strings.ToLower(cardName), rarity)
	if err != nil {
		return nil, fmt.Errorf("find %ss: %w", kind, err)
	}
	if listings == nil {
		listings = []OwnedListing{}
	}
	return listings, nil
}

// AggregateOffers lists every offered card once per rarity with its distinct owners.
func (e *Engine) AggregateOffers(ctx context.Context) ([]CardListing, error) {
	rows, err := e.store.ListAllOffersGrouped(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate offers: %w", err)
	}
	if rows == nil {
		rows = []CardListing{}
	}
	return rows, nil
}

// FindUserMatches pairs each of the user's searches with every offer for the same card.
func (e *Engine) FindUserMatches(ctx context.Context, userID string) ([]UserMatch, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("find user matches: %w: empty user id", ErrInvalidInput)
	}
	matches, err := e.store.FindUserMatches(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user matches: %w", err)
	}
	if matches == nil {
		matches = []UserMatch{}
	}
	return matches, nil
}

// CompleteTrade removes a matched search and offer together. A pair that is already
// gone yields ErrRecordNotFound.
func (e *Engine) CompleteTrade(ctx context.Context, searchID, offerID string) error {
	if strings.TrimSpace(searchID) == "" || strings.TrimSpace(offerID) == "" {
		return fmt.Errorf("complete trade: %w: search and offer ids are required", ErrInvalidInput)
	}
	if err := e.store.DeletePair(ctx, searchID, offerID); err != nil {
		return fmt.Errorf("complete trade: %w", err)
	}
	return nil
}
