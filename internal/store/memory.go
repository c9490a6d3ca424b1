package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

// MemoryStore keeps products on the local device only. It is used when no
// database URL is configured and in tests. Values are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	products    map[uuid.UUID]*Product
	evaluations map[uuid.UUID][]*Evaluation
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:    make(map[uuid.UUID]*Product),
		evaluations: make(map[uuid.UUID][]*Evaluation),
		now:         time.Now,
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateProduct(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	p.ID = uuid.New()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusPending
	}
	s.products[p.ID] = copyProduct(p)
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (s *MemoryStore) ListProducts(_ context.Context, filter ProductFilter) ([]*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Product
	for _, p := range s.products {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Recommendation != "" && p.LatestRecommendation != filter.Recommendation {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(p.Keyword), strings.ToLower(filter.Keyword)) {
			continue
		}
		if filter.MinScore != nil && (p.LatestScore == nil || *p.LatestScore < *filter.MinScore) {
			continue
		}
		out = append(out, copyProduct(p))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.LatestScore != nil && b.LatestScore == nil:
			return true
		case a.LatestScore == nil && b.LatestScore != nil:
			return false
		case a.LatestScore != nil && *a.LatestScore != *b.LatestScore:
			return *a.LatestScore > *b.LatestScore
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.tick(existing.UpdatedAt)

	cp := copyProduct(p)
	cp.LatestScore = existing.LatestScore
	cp.LatestRecommendation = existing.LatestRecommendation
	cp.EvaluatedAt = existing.EvaluatedAt
	s.products[p.ID] = cp
	return nil
}

// tick returns the current time, forced past prev so every update is
// visible to RecordEvaluation.
func (s *MemoryStore) tick(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	delete(s.evaluations, id)
	return nil
}

func (s *MemoryStore) GetPendingProducts(_ context.Context, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Product
	for _, p := range s.products {
		if p.Status == StatusPending {
			out = append(out, copyProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return paginate(out, limit, 0), nil
}

func (s *MemoryStore) RecordEvaluation(_ context.Context, e *Evaluation, asOf time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[e.ProductID]
	if !ok {
		return ErrNotFound
	}
	if !p.UpdatedAt.Equal(asOf) {
		return ErrConflict
	}

	e.ID = uuid.New()
	e.CreatedAt = s.now()
	cp := *e
	cp.Factors = append([]scoring.FactorResult(nil), e.Factors...)
	s.evaluations[e.ProductID] = append(s.evaluations[e.ProductID], &cp)

	score := e.Score
	evaluatedAt := e.CreatedAt
	p.Status = StatusEvaluated
	p.LatestScore = &score
	p.LatestRecommendation = e.Recommendation
	p.EvaluatedAt = &evaluatedAt
	return nil
}

func (s *MemoryStore) ListEvaluations(_ context.Context, productID uuid.UUID) ([]*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Evaluation
	for _, e := range s.evaluations[productID] {
		cp := *e
		cp.Factors = append([]scoring.FactorResult(nil), e.Factors...)
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) GetStats(_ context.Context) (*ProductStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &ProductStats{TotalProducts: len(s.products)}
	var scoreSum, scored int
	for _, p := range s.products {
		if p.Status == StatusPending {
			stats.Pending++
		}
		switch p.LatestRecommendation {
		case scoring.RecommendProceed:
			stats.Proceed++
		case scoring.RecommendGatherData:
			stats.GatherData++
		case scoring.RecommendReject:
			stats.Reject++
		}
		if p.LatestScore != nil {
			scoreSum += *p.LatestScore
			scored++
		}
	}
	if scored > 0 {
		stats.AvgScore = float64(scoreSum) / float64(scored)
	}
	for _, evs := range s.evaluations {
		stats.Evaluations += len(evs)
	}
	return stats, nil
}

func copyProduct(p *Product) *Product {
	cp := *p
	cp.Criteria = append([]scoring.Criterion(nil), p.Criteria...)
	if p.Margins != nil {
		m := *p.Margins
		if p.Margins.ComputedMargin != nil {
			v := *p.Margins.ComputedMargin
			m.ComputedMargin = &v
		}
		cp.Margins = &m
	}
	if p.LatestScore != nil {
		v := *p.LatestScore
		cp.LatestScore = &v
	}
	if p.EvaluatedAt != nil {
		v := *p.EvaluatedAt
		cp.EvaluatedAt = &v
	}
	return &cp
}

func paginate(items []*Product, limit, offset int) []*Product {
	if limit <= 0 {
		limit = 100
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}
