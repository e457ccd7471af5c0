package trade

import (
	"context"
	"sync"

	"github.com/mauv0809/card-swap/internal/card"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	UpsertUserFunc           func(ctx context.Context, user User) error
	GetUserFunc              func(ctx context.Context, id string) (*User, error)
	CreateListingFunc        func(ctx context.Context, kind Kind, userID, cardName string, rarity card.Rarity) (string, error)
	ListByOwnerFunc          func(ctx context.Context, kind Kind, userID string) ([]Listing, error)
	FindByKeyFunc            func(ctx context.Context, kind Kind, cardName string, rarity card.Rarity) ([]OwnedListing, error)
	FindUserMatchesFunc      func(ctx context.Context, userID string) ([]UserMatch, error)
	DeletePairFunc           func(ctx context.Context, searchID, offerID string) error
	ListAllOffersGroupedFunc func(ctx context.Context) ([]CardListing, error)
	UpsertCardSetFunc        func(ctx context.Context, set CardSet) error
	UpsertCardDefinitionFunc func(ctx context.Context, def CardDefinition) error
	ListCardSetsFunc         func(ctx context.Context) ([]CardSet, error)
	ListCardDefinitionsFunc  func(ctx context.Context, setCode string) ([]CardDefinition, error)

	UpsertUserCalls    []User
	CreateListingCalls []struct {
		Kind     Kind
		UserID   string
		CardName string
		Rarity   card.Rarity
	}
	FindByKeyCalls []struct {
		Kind     Kind
		CardName string
		Rarity   card.Rarity
	}
	DeletePairCalls []struct {
		SearchID string
		OfferID  string
	}
	UpsertCardSetCalls        []CardSet
	UpsertCardDefinitionCalls []CardDefinition
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) UpsertUser(ctx context.Context, user User) error {
	m.mu.Lock()
	m.UpsertUserCalls = append(m.UpsertUserCalls, user)
	m.mu.Unlock()
	if m.UpsertUserFunc != nil {
		return m.UpsertUserFunc(ctx, user)
	}
	return nil
}

func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, ErrRecordNotFound
}

func (m *MockStore) CreateListing(ctx context.Context, kind Kind, userID, cardName string, rarity card.Rarity) (string, error) {
	m.mu.Lock()
	m.CreateListingCalls = append(m.CreateListingCalls, struct {
		Kind     Kind
		UserID   string
		CardName string
		Rarity   card.Rarity
	}{kind, userID, cardName, rarity})
	m.mu.Unlock()
	if m.CreateListingFunc != nil {
		return m.CreateListingFunc(ctx, kind, userID, cardName, rarity)
	}
	return "mock-" + string(kind), nil
}

func (m *MockStore) ListByOwner(ctx context.Context, kind Kind, userID string) ([]Listing, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, kind, userID)
	}
	return nil, nil
}

func (m *MockStore) FindByKey(ctx context.Context, kind Kind, cardName string, rarity card.Rarity) ([]OwnedListing, error) {
	m.mu.Lock()
	m.FindByKeyCalls = append(m.FindByKeyCalls, struct {
		Kind     Kind
		CardName string
		Rarity   card.Rarity
	}{kind, cardName, rarity})
	m.mu.Unlock()
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(ctx, kind, cardName, rarity)
	}
	return nil, nil
}

func (m *MockStore) FindUserMatches(ctx context.Context, userID string) ([]UserMatch, error) {
	if m.FindUserMatchesFunc != nil {
		return m.FindUserMatchesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStore) DeletePair(ctx context.Context, searchID, offerID string) error {
	m.mu.Lock()
	m.DeletePairCalls = append(m.DeletePairCalls, struct {
		SearchID string
		OfferID  string
	}{searchID, offerID})
	m.mu.Unlock()
	if m.DeletePairFunc != nil {
		return m.DeletePairFunc(ctx, searchID, offerID)
	}
	return nil
}

func (m *MockStore) ListAllOffersGrouped(ctx context.Context) ([]CardListing, error) {
	if m.ListAllOffersGroupedFunc != nil {
		return m.ListAllOffersGroupedFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) UpsertCardSet(ctx context.Context, set CardSet) error {
	m.mu.Lock()
	m.UpsertCardSetCalls = append(m.UpsertCardSetCalls, set)
	m.mu.Unlock()
	if m.UpsertCardSetFunc != nil {
		return m.UpsertCardSetFunc(ctx, set)
	}
	return nil
}

func (m *MockStore) UpsertCardDefinition(ctx context.Context, def CardDefinition) error {
	m.mu.Lock()
	m.UpsertCardDefinitionCalls = append(m.UpsertCardDefinitionCalls, def)
	m.mu.Unlock()
	if m.UpsertCardDefinitionFunc != nil {
		return m.UpsertCardDefinitionFunc(ctx, def)
	}
	return nil
}

func (m *MockStore) ListCardSets(ctx context.Context) ([]CardSet, error) {
	if m.ListCardSetsFunc != nil {
		return m.ListCardSetsFunc(ctx)
	}
	return nil, nil
}

func (m *MockStore) ListCardDefinitions(ctx context.Context, setCode string) ([]CardDefinition, error) {
	if m.ListCardDefinitionsFunc != nil {
		return m.ListCardDefinitionsFunc(ctx, setCode)
	}
	return nil, nil
}

func (m *MockStore) Close() error {
	return nil
}
