package cache

import "sync/atomic"

// Metrics counts cache traffic. All counters are atomic; Snapshot gives
// a consistent-enough view for the stats endpoint.
type Metrics struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
	errors atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) RecordHit()   { m.hits.Add(1) }
func (m *Metrics) RecordMiss()  { m.misses.Add(1) }
func (m *Metrics) RecordSet()   { m.sets.Add(1) }
func (m *Metrics) RecordError() { m.errors.Add(1) }

func (m *Metrics) HitRate() float64 {
	hits := m.hits.Load()
	total := hits + m.misses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func (m *Metrics) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"hits":     m.hits.Load(),
		"misses":   m.misses.Load(),
		"sets":     m.sets.Load(),
		"errors":   m.errors.Load(),
		"hit_rate": m.HitRate(),
	}
}
