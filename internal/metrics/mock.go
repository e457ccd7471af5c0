package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                   sync.Mutex
	listingsCreated      map[string]int
	matchesFound         int
	tradesCompleted      int
	duplicateCompletions int
	dispatchDurations    []float64
	slackNotifSent       int
	slackNotifFailed     int
	startupTime          float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		listingsCreated:   make(map[string]int),
		dispatchDurations: make([]float64, 0),
	}
}

func (m *Mock) IncListingsCreated(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listingsCreated[kind]++
}

func (m *Mock) AddMatchesFound(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesFound += count
}

func (m *Mock) IncTradesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tradesCompleted++
}

func (m *Mock) IncDuplicateCompletions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicateCompletions++
}

func (m *Mock) ObserveDispatchDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchDurations = append(m.dispatchDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ListingsCreated returns how many listings of the given kind were recorded.
func (m *Mock) ListingsCreated(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listingsCreated[kind]
}

// MatchesFound returns the sum passed to AddMatchesFound.
func (m *Mock) MatchesFound() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesFound
}

// TradesCompleted returns the number of times IncTradesCompleted was called.
func (m *Mock) TradesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tradesCompleted
}

// DuplicateCompletions returns the number of times IncDuplicateCompletions was called.
func (m *Mock) DuplicateCompletions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duplicateCompletions
}

// DispatchDurations returns every observed dispatch duration.
func (m *Mock) DispatchDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.dispatchDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
