package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

type TriggerRepository struct {
	db *sql.DB
}

func NewTriggerRepository(db *sql.DB) *TriggerRepository {
	return &TriggerRepository{db: db}
}

// Save insert/update Trigger record
func (r *TriggerRepository) Save(ctx context.Context, t *domain.Trigger) error {
	const q = `
INSERT INTO org_triggers
(id, tenant_id, name, type, config_json, status, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 name=VALUES(name),
 config_json=VALUES(config_json),
 status=VALUES(status),
 updated_at=VALUES(updated_at);
`
	tenant := stringOrDash(t.TenantID)
	status := stringOrDash(string(t.Status))
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := t.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	_, err := r.db.ExecContext(ctx, q,
		t.ID, tenant, t.Name, t.Type, encodeMap(t.Config), status, created, updated,
	)
	return err
}

// Get by ID + Tenant
func (r *TriggerRepository) Get(ctx context.Context, tenant string, id domain.TriggerID) (*domain.Trigger, error) {
	const q = `
SELECT id, tenant_id, name, type, config_json, status, created_at, updated_at
FROM org_triggers
WHERE tenant_id=? AND id=? LIMIT 1;
`
	return scanTrigger(r.db.QueryRowContext(ctx, q, tenant, id))
}

// ListActive triggers per tenant, catalog order (oldest first)
func (r *TriggerRepository) ListActive(ctx context.Context, tenant string) ([]*domain.Trigger, error) {
	const q = `
SELECT id, tenant_id, name, type, config_json, status, created_at, updated_at
FROM org_triggers
WHERE tenant_id=? AND status='active'
ORDER BY created_at ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, tenant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTriggers(rows)
}

// List triggers per tenant, optional status filter
func (r *TriggerRepository) List(ctx context.Context, tenant string, status domain.Status) ([]*domain.Trigger, error) {
	query := `
SELECT id, tenant_id, name, type, config_json, status, created_at, updated_at
FROM org_triggers
WHERE tenant_id=?`
	args := []any{tenant}
	if status != "" {
		query += " AND status=?"
		args = append(args, status)
	}
	query += "\nORDER BY created_at ASC, id ASC;"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTriggers(rows)
}

// UpdateStatus lifecycle trigger (activate/pause/deactivate)
func (r *TriggerRepository) UpdateStatus(ctx context.Context, tenant string, id domain.TriggerID, status domain.Status) error {
	const q = `UPDATE org_triggers SET status=?, updated_at=? WHERE tenant_id=? AND id=?;`
	res, err := r.db.ExecContext(ctx, q, status, time.Now(), tenant, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTriggerNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrigger(row rowScanner) (*domain.Trigger, error) {
	var t domain.Trigger
	var config string
	if err := row.Scan(
		&t.ID, &t.TenantID, &t.Name, &t.Type, &config, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTriggerNotFound
		}
		return nil, err
	}
	t.Config = decodeMap(config)
	return &t, nil
}

func collectTriggers(rows *sql.Rows) ([]*domain.Trigger, error) {
	var out []*domain.Trigger
	for rows.Next() {
		t, err := scanTrigger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
