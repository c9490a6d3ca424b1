package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ericmc/amazon-product-research-playbook-sub001/internal/scoring"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS playbook_products (
	product_id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title                 TEXT NOT NULL,
	asin                  TEXT NOT NULL DEFAULT '',
	keyword               TEXT NOT NULL DEFAULT '',
	marketplace           TEXT NOT NULL DEFAULT '',
	source                TEXT NOT NULL DEFAULT '',
	status                TEXT NOT NULL DEFAULT 'pending',
	criteria              JSONB NOT NULL DEFAULT '[]',
	margins               JSONB,
	latest_score          INTEGER,
	latest_recommendation TEXT,
	evaluated_at          TIMESTAMPTZ,
	created_at            TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at            TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS playbook_products_status_idx ON playbook_products (status);

CREATE TABLE IF NOT EXISTS playbook_evaluations (
	evaluation_id  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	product_id     UUID NOT NULL REFERENCES playbook_products (product_id) ON DELETE CASCADE,
	score          INTEGER NOT NULL,
	gates          JSONB NOT NULL,
	gates_passed   INTEGER NOT NULL,
	recommendation TEXT NOT NULL,
	factors        JSONB NOT NULL DEFAULT '[]',
	weight_total   DOUBLE PRECISION NOT NULL,
	triggered_by   TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS playbook_evaluations_product_idx ON playbook_evaluations (product_id, created_at);
`

// Migrate creates the playbook tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const productColumns = `product_id, title, asin, keyword, marketplace, source, status,
	criteria, margins, latest_score, latest_recommendation, evaluated_at,
	created_at, updated_at`

func (s *PostgresStore) CreateProduct(ctx context.Context, p *Product) error {
	if p.Status == "" {
		p.Status = StatusPending
	}
	criteriaJSON, err := json.Marshal(p.Criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	marginsJSON, err := marshalMargins(p.Margins)
	if err != nil {
		return fmt.Errorf("encode margins: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO playbook_products (title, asin, keyword, marketplace, source, status, criteria, margins)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING product_id, created_at, updated_at`,
		p.Title, p.ASIN, p.Keyword, p.Marketplace, p.Source, p.Status, criteriaJSON, marginsJSON,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *PostgresStore) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM playbook_products WHERE product_id = $1`, id)
	p, err := scanProduct(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM playbook_products WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, string(*filter.Status))
	}
	if filter.Recommendation != "" {
		n++
		query += fmt.Sprintf(" AND latest_recommendation = $%d", n)
		args = append(args, string(filter.Recommendation))
	}
	if filter.Keyword != "" {
		n++
		query += fmt.Sprintf(" AND keyword ILIKE $%d", n)
		args = append(args, "%"+filter.Keyword+"%")
	}
	if filter.MinScore != nil {
		n++
		query += fmt.Sprintf(" AND latest_score >= $%d", n)
		args = append(args, *filter.MinScore)
	}

	query += " ORDER BY latest_score DESC NULLS LAST, created_at ASC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, p *Product) error {
	criteriaJSON, err := json.Marshal(p.Criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	marginsJSON, err := marshalMargins(p.Margins)
	if err != nil {
		return fmt.Errorf("encode margins: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		UPDATE playbook_products SET
			title = $2, asin = $3, keyword = $4, marketplace = $5, source = $6, status = $7,
			criteria = $8, margins = $9,
			updated_at = clock_timestamp()
		WHERE product_id = $1
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.ASIN, p.Keyword, p.Marketplace, p.Source, p.Status,
		criteriaJSON, marginsJSON,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM playbook_products WHERE product_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetPendingProducts(ctx context.Context, limit int) ([]*Product, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM playbook_products WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (s *PostgresStore) RecordEvaluation(ctx context.Context, e *Evaluation, asOf time.Time) error {
	gatesJSON, err := json.Marshal(e.Gates)
	if err != nil {
		return fmt.Errorf("encode gates: %w", err)
	}
	factorsJSON, err := json.Marshal(e.Factors)
	if err != nil {
		return fmt.Errorf("encode factors: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE playbook_products SET
			status = 'evaluated', latest_score = $2, latest_recommendation = $3, evaluated_at = now()
		WHERE product_id = $1 AND updated_at = $4`,
		e.ProductID, e.Score, string(e.Recommendation), asOf,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM playbook_products WHERE product_id = $1)`, e.ProductID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConflict
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO playbook_evaluations (product_id, score, gates, gates_passed, recommendation, factors, weight_total, triggered_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING evaluation_id, created_at`,
		e.ProductID, e.Score, gatesJSON, e.GatesPassed, string(e.Recommendation), factorsJSON, e.WeightTotal, e.Trigger,
	).Scan(&e.ID, &e.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) ListEvaluations(ctx context.Context, productID uuid.UUID) ([]*Evaluation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT evaluation_id, product_id, score, gates, gates_passed, recommendation, factors, weight_total, triggered_by, created_at
		FROM playbook_evaluations WHERE product_id = $1
		ORDER BY created_at ASC`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evals []*Evaluation
	for rows.Next() {
		e := &Evaluation{}
		var gatesJSON, factorsJSON []byte
		var rec string
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Score, &gatesJSON, &e.GatesPassed, &rec,
			&factorsJSON, &e.WeightTotal, &e.Trigger, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Recommendation = scoring.Recommendation(rec)
		if gatesJSON != nil {
			_ = json.Unmarshal(gatesJSON, &e.Gates)
		}
		if factorsJSON != nil {
			_ = json.Unmarshal(factorsJSON, &e.Factors)
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

func (s *PostgresStore) GetStats(ctx context.Context) (*ProductStats, error) {
	stats := &ProductStats{}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN latest_recommendation = 'proceed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN latest_recommendation = 'gather-data' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN latest_recommendation = 'reject' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(latest_score) FILTER (WHERE latest_score IS NOT NULL), 0),
			(SELECT COUNT(*) FROM playbook_evaluations)
		FROM playbook_products`,
	).Scan(&stats.TotalProducts, &stats.Pending, &stats.Proceed, &stats.GatherData, &stats.Reject,
		&stats.AvgScore, &stats.Evaluations)
	return stats, err
}

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	var criteriaJSON, marginsJSON []byte
	var rec sql.NullString
	if err := row.Scan(
		&p.ID, &p.Title, &p.ASIN, &p.Keyword, &p.Marketplace, &p.Source, &p.Status,
		&criteriaJSON, &marginsJSON, &p.LatestScore, &rec, &p.EvaluatedAt,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if rec.Valid {
		p.LatestRecommendation = scoring.Recommendation(rec.String)
	}
	if criteriaJSON != nil {
		_ = json.Unmarshal(criteriaJSON, &p.Criteria)
	}
	if marginsJSON != nil {
		_ = json.Unmarshal(marginsJSON, &p.Margins)
	}
	return p, nil
}

func scanProducts(rows pgx.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func marshalMargins(m *scoring.Margins) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
