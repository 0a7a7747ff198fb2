package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/insights"
)

type InsightRepository struct{ db *sql.DB }

func NewInsightRepository(db *sql.DB) *InsightRepository { return &InsightRepository{db: db} }

// Save insert insight row
func (r *InsightRepository) Save(ctx context.Context, i *domain.Insight) error {
	const q = `
INSERT INTO dispatch_insights
(id, tenant_id, result, created_at)
VALUES ($1,$2,$3,$4);`
	created := i.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, i.ID, stringOrDash(i.TenantID), i.Result, created)
	return err
}

// Latest insights per tenant
func (r *InsightRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Insight, error) {
	if limit <= 0 {
		limit = 10
	}
	const q = `
SELECT id, tenant_id, result, created_at
FROM dispatch_insights
WHERE tenant_id=$1 ORDER BY created_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Insight
	for rows.Next() {
		var i domain.Insight
		if err := rows.Scan(&i.ID, &i.TenantID, &i.Result, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &i)
	}
	return out, rows.Err()
}
