package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

type DispatchErrorRepository struct {
	db *sql.DB
}

func NewDispatchErrorRepository(db *sql.DB) *DispatchErrorRepository {
	return &DispatchErrorRepository{db: db}
}

// Save insert dispatch error row
func (r *DispatchErrorRepository) Save(ctx context.Context, e *domain.DispatchError) error {
	const q = `
INSERT INTO dispatch_errors
(tenant_id, trigger_id, phase, message, created_at)
VALUES (?,?,?,?,?);
`
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		stringOrDash(e.TenantID), e.TriggerID, e.Phase, e.Message, created,
	)
	return err
}

// ListByTrigger errors untuk satu trigger, terbaru dulu
func (r *DispatchErrorRepository) ListByTrigger(ctx context.Context, tenant string, triggerID string, limit int) ([]*domain.DispatchError, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, trigger_id, phase, message, created_at
FROM dispatch_errors
WHERE tenant_id=? AND trigger_id=?
ORDER BY created_at DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, triggerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.DispatchError
	for rows.Next() {
		var e domain.DispatchError
		if err := rows.Scan(&e.ID, &e.TenantID, &e.TriggerID, &e.Phase, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
