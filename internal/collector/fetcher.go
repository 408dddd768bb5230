package collector

import (
	"context"
	"errors"

	"SignalSentinel/internal/model"
)

var (
	// ErrNoData is returned when the provider has no bars for the request.
	ErrNoData = errors.New("no data returned")
	// ErrMissingField is returned when the payload lacks timestamps or quotes.
	ErrMissingField = errors.New("missing field in payload")
	// ErrInsufficientBars is returned when fewer than two bars survive parsing.
	ErrInsufficientBars = errors.New("insufficient bars")
)

// Fetcher defines the interface for fetching market data.
// period and interval use provider range notation ("5d", "5m").
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, period, interval string) ([]model.Bar, error)
	Name() string
}
