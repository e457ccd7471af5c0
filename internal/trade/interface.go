package trade

import (
	"context"

	"github.com/mauv0809/card-swap/internal/card"
)

// Store is the durable record store behind the match engine. Implementations must
// treat (lowercase(cardName), rarity) as an exact matching key and must delete
// matched pairs atomically. Backend failures are wrapped with ErrStorageUnavailable.
type Store interface {
	UpsertUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (*User, error)

	// CreateListing stores a new offer or search and returns its generated id.
	CreateListing(ctx context.Context, kind Kind, userID, cardName string, rarity card.Rarity) (string, error)
	// ListByOwner returns the user's listings of the given kind, newest first.
	ListByOwner(ctx context.Context, kind Kind, userID string) ([]Listing, error)
	// FindByKey returns listings of the given kind with the same key, oldest first.
	FindByKey(ctx context.Context, kind Kind, cardName string, rarity card.Rarity) ([]OwnedListing, error)
	// FindUserMatches joins the user's searches with offers of the same key.
	FindUserMatches(ctx context.Context, userID string) ([]UserMatch, error)
	// DeletePair deletes the search and the offer, or neither. It returns
	// ErrRecordNotFound when either no longer exists.
	DeletePair(ctx context.Context, searchID, offerID string) error
	ListAllOffersGrouped(ctx context.Context) ([]CardListing, error)

	UpsertCardSet(ctx context.Context, set CardSet) error
	UpsertCardDefinition(ctx context.Context, def CardDefinition) error
	ListCardSets(ctx context.Context) ([]CardSet, error)
	ListCardDefinitions(ctx context.Context, setCode string) ([]CardDefinition, error)

	Close() error
}
