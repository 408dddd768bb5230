package strategy

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"

	"SignalSentinel/internal/model"
)

// DefaultPatternTTL bounds how long a memoized pattern pass is reused.
const DefaultPatternTTL = 5 * time.Minute

// PatternMemo caches pattern passes keyed by a hash of every input the
// chain reads. Entries expire after a wall-clock TTL.
type PatternMemo struct {
	cache *ristretto.Cache[uint64, []PatternResult]
	ttl   time.Duration
}

// NewPatternMemo creates a memo holding up to maxEntries pattern passes.
func NewPatternMemo(ttl time.Duration, maxEntries int64) (*PatternMemo, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("pattern memo ttl must be positive, got %v", ttl)
	}
	if maxEntries <= 0 {
		maxEntries = 256
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []PatternResult]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create pattern cache: %w", err)
	}
	return &PatternMemo{cache: cache, ttl: ttl}, nil
}

// Classify returns the pattern pass for s, computing it on a miss.
// The returned slice is shared and must not be modified.
func (m *PatternMemo) Classify(s *model.Series, th model.Thresholds) []PatternResult {
	key := patternKey(s, th)
	if res, ok := m.cache.Get(key); ok && len(res) == s.Len() {
		return res
	}
	res := classifyAll(s, th)
	m.cache.SetWithTTL(key, res, 1, m.ttl)
	m.cache.Wait()
	return res
}

func (m *PatternMemo) Close() { m.cache.Close() }

func patternKey(s *model.Series, th model.Thresholds) uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 8*8)
	put := func(values ...float64) {
		buf = buf[:0]
		for _, v := range values {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		d.Write(buf)
	}
	put(th.BodyRatio, th.ShadowRatio, th.DojiRatio, th.StrongBodyRatio, th.StarBodyRatio)
	for i := range s.Rows {
		r := &s.Rows[i]
		put(float64(r.Time.UnixNano()), r.Open, r.High, r.Low, r.Close, r.Volume, r.AvgVolume5)
	}
	return d.Sum64()
}
