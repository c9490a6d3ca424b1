// Package rescorer evaluates products in the background and owns the shared
// evaluate-and-persist path used by the API.
package rescorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/config"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/hermes"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/metrics"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/store"
)

// Evaluation triggers recorded on each stored evaluation.
const (
	TriggerCreate  = "create"
	TriggerManual  = "manual"
	TriggerRescore = "rescore"
)

type Rescorer struct {
	store   store.Store
	hermes  hermes.Client
	metrics *metrics.Metrics
	weights scoring.WeightSet
	cfg     *config.Config
	logger  *slog.Logger
	now     func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, h hermes.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Rescorer {
	return &Rescorer{
		store:   s,
		hermes:  h,
		metrics: m,
		weights: cfg.Scoring.WeightSet(),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
}

// Weights returns the default weights given to submitted criteria that omit one.
func (r *Rescorer) Weights() scoring.WeightSet { return r.weights }

func (r *Rescorer) Start(ctx context.Context) {
	r.wg.Add(2)
	go r.rescoreLoop(ctx)
	go r.statsLoop(ctx)
}

func (r *Rescorer) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Rescorer) rescoreLoop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.cfg.TickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.processPending(ctx)
		}
	}
}

func (r *Rescorer) processPending(ctx context.Context) {
	products, err := r.store.GetPendingProducts(ctx, r.cfg.Rescore.BatchSize)
	if err != nil {
		r.logger.Error("failed to get pending products", "error", err)
		return
	}
	r.metrics.SetPending(len(products))
	if len(products) == 0 {
		return
	}

	r.logger.Info("rescoring pending products", "count", len(products))
	for _, p := range products {
		_, err := r.EvaluateProduct(ctx, p, TriggerRescore)
		switch {
		case err == nil:
		case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrNotFound):
			r.logger.Info("product changed during rescore, skipping", "product_id", p.ID, "error", err)
		default:
			r.logger.Warn("failed to evaluate product", "product_id", p.ID, "error", err)
		}
	}
}

// EvaluateProduct runs the engine over p's stored criteria, records the
// evaluation, marks p evaluated and publishes the outcome. p is treated as a
// snapshot: if the product was updated after p was read, nothing is written
// and the error matches store.ErrConflict. Engine validation failures match
// scoring.ErrInvalidCriterion.
func (r *Rescorer) EvaluateProduct(ctx context.Context, p *store.Product, trigger string) (*store.Evaluation, error) {
	start := time.Now()

	ev, err := scoring.Evaluate(p.Criteria, p.Margins)
	if err != nil {
		return nil, fmt.Errorf("evaluate product %s: %w", p.ID, err)
	}

	rec := store.NewEvaluation(p.ID, ev, trigger)
	if err := r.store.RecordEvaluation(ctx, rec, p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("record evaluation for %s: %w", p.ID, err)
	}

	score := ev.Score
	evaluatedAt := rec.CreatedAt
	p.Status = store.StatusEvaluated
	p.LatestScore = &score
	p.LatestRecommendation = ev.Recommendation
	p.EvaluatedAt = &evaluatedAt

	r.metrics.ObserveEvaluation(ev, trigger)
	r.metrics.ObserveEvaluateLatency(time.Since(start))

	r.logger.Info("product evaluated",
		"product_id", p.ID,
		"score", ev.Score,
		"gates_passed", ev.GatesPassed,
		"recommendation", ev.Recommendation,
		"weights_balanced", ev.WeightsBalanced,
		"trigger", trigger,
	)

	if r.hermes != nil {
		_ = r.hermes.Publish(hermes.SubjectProductEvaluated(p.ID.String()), hermes.ProductEvaluatedEvent{
			ProductID:      p.ID.String(),
			EvaluationID:   rec.ID.String(),
			Score:          ev.Score,
			Gates:          ev.Gates,
			GatesPassed:    ev.GatesPassed,
			Recommendation: ev.Recommendation,
			Trigger:        trigger,
		})
	}
	return rec, nil
}

// SetupSubscriptions registers the NATS product submission handler.
func (r *Rescorer) SetupSubscriptions() {
	if r.hermes == nil {
		return
	}

	_ = r.hermes.Subscribe(hermes.SubjectProductSubmit, func(_ string, data []byte) {
		var req hermes.ProductSubmitEvent
		if err := json.Unmarshal(data, &req); err != nil {
			r.logger.Warn("invalid product submit event", "error", err)
			return
		}
		p, err := r.SubmitProduct(context.Background(), req)
		if err != nil {
			r.logger.Warn("rejected product submission", "title", req.Title, "error", err)
			return
		}
		r.logger.Info("product created from NATS submission", "product_id", p.ID, "keyword", p.Keyword)
	})
}

// SubmitProduct resolves omitted weights from the defaults, validates the
// submission and stores it as pending. The rescore loop picks it up on its
// next tick.
func (r *Rescorer) SubmitProduct(ctx context.Context, req hermes.ProductSubmitEvent) (*store.Product, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &scoring.ValidationError{Field: "title", Reason: "is required"}
	}
	criteria := r.weights.Resolve(req.Criteria)
	if err := scoring.ValidateCriteria(criteria); err != nil {
		return nil, err
	}

	p := &store.Product{
		Title:       req.Title,
		ASIN:        req.ASIN,
		Keyword:     req.Keyword,
		Marketplace: req.Marketplace,
		Source:      req.Source,
		Status:      store.StatusPending,
		Criteria:    criteria,
		Margins:     req.Margins,
	}
	if p.Source == "" {
		p.Source = "nats"
	}
	if p.Marketplace == "" {
		p.Marketplace = r.cfg.Research.Marketplace
	}
	if err := r.store.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if r.hermes != nil {
		_ = r.hermes.Publish(hermes.SubjectProductCreated(p.ID.String()), hermes.ProductCreatedEvent{
			ProductID: p.ID.String(),
			Title:     p.Title,
			Keyword:   p.Keyword,
			Source:    p.Source,
		})
	}
	return p, nil
}
