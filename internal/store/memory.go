package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory keeps records and full texts in process. It backs tests and
// deployments that run without databases.
type Memory struct {
	mu        sync.Mutex
	records   []Record
	fullTexts []FullText
	now       func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) SaveSummary(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prepare(rec, m.now())
	m.records = append(m.records, *rec)
	return nil
}

// Recent returns up to limit records, newest first.
func (m *Memory) Recent(_ context.Context, limit int) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, len(m.records))
	copy(out, m.records)
	// Later inserts win ties so equal timestamps still list newest first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SaveFullText(_ context.Context, ft FullText) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ft.CreatedAt.IsZero() {
		ft.CreatedAt = m.now().UTC()
	}
	m.fullTexts = append(m.fullTexts, ft)
	return nil
}

// FullTexts returns archived texts for url, newest first.
func (m *Memory) FullTexts(_ context.Context, url string, limit int) ([]FullText, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []FullText
	for i := len(m.fullTexts) - 1; i >= 0; i-- {
		if m.fullTexts[i].URL != url {
			continue
		}
		out = append(out, m.fullTexts[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
