package collector

import (
	"context"
	"sync"
	"time"

	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without explicit bars get a generated gentle uptrend.
type MockFetcher struct {
	Price  float64
	Count  int
	Bars   map[string][]model.Bar
	Errors map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol, _, _ string) ([]model.Bar, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		out := make([]model.Bar, len(bars))
		copy(out, bars)
		return out, nil
	}
	count := m.Count
	if count == 0 {
		count = 60
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return generateMockBars(price, count), nil
}

// Calls reports how many times symbol was requested.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

func generateMockBars(basePrice float64, count int) []model.Bar {
	start := time.Now().Truncate(5 * time.Minute).Add(-time.Duration(count) * 5 * time.Minute)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * 5 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
