package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/card-swap/internal/card"
	"github.com/mauv0809/card-swap/internal/metrics"
)

// Service runs the user-facing workflows: recording offers and searches, reporting
// matches, and completing trades.
type Service struct {
	store   Store
	engine  *Engine
	metrics metrics.Metrics
}

// NewService creates the workflow service.
func NewService(store Store, m metrics.Metrics) *Service {
	return &Service{
		store:   store,
		engine:  NewEngine(store),
		metrics: m,
	}
}

// SubmitOffer records an offer and returns the searches it satisfies. The offerer's
// own searches are left out.
//
// When the offer is stored but the match query fails, the result is returned
// together with the error. It carries the new OfferID and no matches, and the
// caller must not submit the offer again.
func (s *Service) SubmitOffer(ctx context.Context, user User, cardName, rarity string) (*OfferResult, error) {
	name, r, err := validateListing(user, cardName, rarity)
	if err != nil {
		return nil, fmt.Errorf("submit offer: %w", err)
	}

	id, err := s.record(ctx, KindOffer, user, name, r)
	if err != nil {
		return nil, fmt.Errorf("submit offer: %w", err)
	}

	res := &OfferResult{
		OfferID:         id,
		CardName:        name,
		Rarity:          r,
		MatchedSearches: []OwnedListing{},
	}
	searches, err := s.engine.FindMatchingSearches(ctx, name, r)
	if err != nil {
		log.Warn("Offer recorded without matches", "offer_id", id, "user", user.ID, "error", err)
		return res, fmt.Errorf("submit offer %s: %w", id, err)
	}
	res.MatchedSearches = excludeOwner(searches, user.ID)
	s.metrics.AddMatchesFound(len(res.MatchedSearches))

	log.Info("Offer recorded", "offer_id", id, "user", user.ID, "card", name, "rarity", r, "matches", len(res.MatchedSearches))
	return res, nil
}

// SubmitSearch records a search and returns the offers that already satisfy it. The
// searcher's own offers are left out. A failed match query after the search was
// stored is reported like in SubmitOffer.
func (s *Service) SubmitSearch(ctx context.Context, user User, cardName, rarity string) (*SearchResult, error) {
	name, r, err := validateListing(user, cardName, rarity)
	if err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}

	id, err := s.record(ctx, KindSearch, user, name, r)
	if err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}

	res := &SearchResult{
		SearchID:      id,
		CardName:      name,
		Rarity:        r,
		MatchedOffers: []OwnedListing{},
	}
	offers, err := s.engine.FindMatchingOffers(ctx, name, r)
	if err != nil {
		log.Warn("Search recorded without matches", "search_id", id, "user", user.ID, "error", err)
		return res, fmt.Errorf("submit search %s: %w", id, err)
	}
	res.MatchedOffers = excludeOwner(offers, user.ID)
	s.metrics.AddMatchesFound(len(res.MatchedOffers))

	log.Info("Search recorded", "search_id", id, "user", user.ID, "card", name, "rarity", r, "matches", len(res.MatchedOffers))
	return res, nil
}

func (s *Service) record(ctx context.Context, kind Kind, user User, name string, r card.Rarity) (string, error) {
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return "", err
	}
	id, err := s.store.CreateListing(ctx, kind, user.ID, name, r)
	if err != nil {
		return "", err
	}
	s.metrics.IncListingsCreated(string(kind))
	return id, nil
}

// CompleteTrade deletes the pair. A pair that is already gone is reported as
// AlreadyCompleted rather than as an error.
func (s *Service) CompleteTrade(ctx context.Context, searchID, offerID string) (*CompletionResult, error) {
	searchID = strings.TrimSpace(searchID)
	offerID = strings.TrimSpace(offerID)
	result := &CompletionResult{SearchID: searchID, OfferID: offerID}

	err := s.engine.CompleteTrade(ctx, searchID, offerID)
	switch {
	case err == nil:
		s.metrics.IncTradesCompleted()
		log.Info("Trade completed", "search_id", searchID, "offer_id", offerID)
		return result, nil
	case errors.Is(err, ErrRecordNotFound):
		s.metrics.IncDuplicateCompletions()
		log.Info("Trade already completed", "search_id", searchID, "offer_id", offerID)
		result.AlreadyCompleted = true
		return result, nil
	default:
		return nil, err
	}
}

// ListOffers returns the user's offers, newest first.
func (s *Service) ListOffers(ctx context.Context, userID string) ([]Listing, error) {
	return s.listByOwner(ctx, KindOffer, userID)
}

// ListSearches returns the user's searches, newest first.
func (s *Service) ListSearches(ctx context.Context, userID string) ([]Listing, error) {
	return s.listByOwner(ctx, KindSearch, userID)
}

func (s *Service) listByOwner(ctx context.Context, kind Kind, userID string) ([]Listing, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("list %ss: %w: empty user id", kind, ErrInvalidInput)
	}
	listings, err := s.store.ListByOwner(ctx, kind, userID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	if listings == nil {
		listings = []Listing{}
	}
	return listings, nil
}

// AvailableCards returns every offered card grouped by name and rarity.
func (s *Service) AvailableCards(ctx context.Context) ([]CardListing, error) {
	return s.engine.AggregateOffers(ctx)
}

// UserMatches returns the trades available to the user for their searches.
func (s *Service) UserMatches(ctx context.Context, userID string) ([]UserMatch, error) {
	return s.engine.FindUserMatches(ctx, userID)
}

// GetUser returns a known user.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("get user: %w: empty user id", ErrInvalidInput)
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// TouchUser records that the user interacted with the bot.
func (s *Service) TouchUser(ctx context.Context, user User) error {
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("touch user: %w: empty user id", ErrInvalidInput)
	}
	if err := s.store.UpsertUser(ctx, user); err != nil {
		return fmt.Errorf("touch user: %w", err)
	}
	return nil
}

func validateListing(user User, cardName, rarity string) (string, card.Rarity, error) {
	if strings.TrimSpace(user.ID) == "" {
		return "", "", fmt.Errorf("%w: empty user id", ErrInvalidInput)
	}
	name := strings.TrimSpace(cardName)
	if name == "" {
		return "", "", fmt.Errorf("%w: empty card name", ErrInvalidInput)
	}
	r, err := card.ParseRarity(rarity)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidRarity, err)
	}
	return name, r, nil
}

func excludeOwner(listings []OwnedListing, userID string) []OwnedListing {
	out := make([]OwnedListing, 0, len(listings))
	for _, l := range listings {
		if l.UserID == userID {
			continue
		}
		out = append(out, l)
	}
	return out
}
