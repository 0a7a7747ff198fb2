package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

type ExecutionRepository struct{ db *sql.DB }

func NewExecutionRepository(db *sql.DB) *ExecutionRepository { return &ExecutionRepository{db: db} }

// Save insert audit record (append-only)
func (r *ExecutionRepository) Save(ctx context.Context, e *domain.TriggerExecution) error {
	const q = `
INSERT INTO trigger_executions
(id, tenant_id, trigger_id, trigger_type, status, config_json,
 action, priority, data_json, snapshot_url, executed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);`

	tenant := stringOrDash(e.TenantID)
	status := stringOrDash(e.Status)
	executed := e.ExecutedAt
	if executed.IsZero() {
		executed = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		e.ID, tenant, e.TriggerID, e.TriggerType, status,
		encodeMap(e.ConfigSnapshot),
		e.Action, e.Priority, encodeMap(e.Data), e.SnapshotURL, executed,
	)
	return err
}

func (r *ExecutionRepository) Get(ctx context.Context, tenant string, id string) (*domain.TriggerExecution, error) {
	const q = `
SELECT id, tenant_id, trigger_id, trigger_type, status, config_json,
       action, priority, data_json, snapshot_url, executed_at
FROM trigger_executions
WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	return scanExecution(r.db.QueryRowContext(ctx, q, tenant, id))
}

func (r *ExecutionRepository) Latest(ctx context.Context, tenant string, limit int) ([]*domain.TriggerExecution, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, tenant_id, trigger_id, trigger_type, status, config_json,
       action, priority, data_json, snapshot_url, executed_at
FROM trigger_executions
WHERE tenant_id=$1 ORDER BY executed_at DESC LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, tenant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectExecutions(rows)
}

func (r *ExecutionRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedExecutions, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, trigger_id, trigger_type, status, config_json,
       action, priority, data_json, snapshot_url, executed_at
FROM trigger_executions
WHERE tenant_id=$1
ORDER BY executed_at DESC
LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedExecutions{}, fmt.Errorf("querying executions: %w", err)
	}
	defer rows.Close()

	execs, err := collectExecutions(rows)
	if err != nil {
		return domain.PaginatedExecutions{}, fmt.Errorf("scanning executions: %w", err)
	}

	var total int64
	const cq = `SELECT COUNT(*) FROM trigger_executions WHERE tenant_id=$1;`
	if err := r.db.QueryRowContext(ctx, cq, tenant).Scan(&total); err != nil {
		return domain.PaginatedExecutions{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedExecutions{
		Data:       execs,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

func scanExecution(row rowScanner) (*domain.TriggerExecution, error) {
	var e domain.TriggerExecution
	var config, data string
	if err := row.Scan(
		&e.ID, &e.TenantID, &e.TriggerID, &e.TriggerType, &e.Status, &config,
		&e.Action, &e.Priority, &data, &e.SnapshotURL, &e.ExecutedAt,
	); err != nil {
		return nil, err
	}
	e.ConfigSnapshot = decodeMap(config)
	e.Data = decodeMap(data)
	return &e, nil
}

func collectExecutions(rows *sql.Rows) ([]*domain.TriggerExecution, error) {
	var out []*domain.TriggerExecution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
