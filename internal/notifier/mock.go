package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/card-swap/internal/conversation"
	"github.com/mauv0809/card-swap/internal/trade"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies
	SendMatchNotificationFunc func(ctx context.Context, notice MatchNotification, dryRun bool) error

	// Call records
	SendMatchNotificationCalls []struct {
		Notice MatchNotification
		DryRun bool
	}
	FormatCalls []string
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMatchNotificationCalls = nil
	m.FormatCalls = nil
}

func (m *Mock) SendMatchNotification(ctx context.Context, notice MatchNotification, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchNotificationCalls = append(m.SendMatchNotificationCalls, struct {
		Notice MatchNotification
		DryRun bool
	}{notice, dryRun})
	m.mu.Unlock()
	if m.SendMatchNotificationFunc != nil {
		return m.SendMatchNotificationFunc(ctx, notice, dryRun)
	}
	return nil
}

// Sent returns the recorded notifications.
func (m *Mock) Sent() []MatchNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MatchNotification, 0, len(m.SendMatchNotificationCalls))
	for _, c := range m.SendMatchNotificationCalls {
		out = append(out, c.Notice)
	}
	return out
}

func (m *Mock) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatCalls = append(m.FormatCalls, name)
}

func (m *Mock) FormatOfferResponse(res *trade.OfferResult) (any, error) {
	m.record("offer")
	return res, nil
}

func (m *Mock) FormatSearchResponse(res *trade.SearchResult) (any, error) {
	m.record("search")
	return res, nil
}

func (m *Mock) FormatListingsResponse(kind trade.Kind, listings []trade.Listing) (any, error) {
	m.record("listings")
	return listings, nil
}

func (m *Mock) FormatAvailableCardsResponse(rows []trade.CardListing) (any, error) {
	m.record("cards")
	return rows, nil
}

func (m *Mock) FormatUserMatchesResponse(matches []trade.UserMatch) (any, error) {
	m.record("matches")
	return matches, nil
}

func (m *Mock) FormatCompletionResponse(res *trade.CompletionResult) (any, error) {
	m.record("completion")
	return res, nil
}

func (m *Mock) FormatSetPickerResponse(flow conversation.Flow, sets []trade.CardSet) (any, error) {
	m.record("set_picker")
	return flow, nil
}

func (m *Mock) FormatRarityPickerResponse(flow conversation.Flow) (any, error) {
	m.record("rarity_picker")
	return flow, nil
}

func (m *Mock) FormatCardNamePromptResponse(flow conversation.Flow) (any, error) {
	m.record("card_prompt")
	return flow, nil
}

func (m *Mock) FormatCardLookupResponse(query string, defs []trade.CardDefinition) (any, error) {
	m.record("card_lookup")
	return defs, nil
}

func (m *Mock) FormatErrorResponse(message string) (any, error) {
	m.record("error")
	return map[string]string{"text": message}, nil
}
