package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the subset of pgx operations shared by the pool and an open
// transaction, so config resolution can join whatever transaction the caller
// is already in.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ConfigRepo handles configs rows and checklist-config links.
type ConfigRepo struct{}

func NewConfigRepo() *ConfigRepo {
	return &ConfigRepo{}
}

// ResolveOrCreate returns the id of the config with the given name, creating
// the row when it does not exist.
func (r *ConfigRepo) ResolveOrCreate(ctx context.Context, name string) (int64, error) {
	pool := GetPool()
	if pool == nil {
		return 0, fmt.Errorf("database pool not initialized")
	}
	return r.resolveOrCreate(ctx, pool, name)
}

func (r *ConfigRepo) resolveOrCreate(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
		INSERT INTO configs (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id`, name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("resolve config %q: %w", name, err)
	}
	return id, nil
}

// LinkChecklist records that a checklist references a config.
func (r *ConfigRepo) LinkChecklist(ctx context.Context, checklistID string, configID int64) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	return r.linkChecklist(ctx, pool, checklistID, configID)
}

func (r *ConfigRepo) linkChecklist(ctx context.Context, q querier, checklistID string, configID int64) error {
	_, err := q.Exec(ctx, `
		INSERT INTO checklist_configs (checklist_id, config_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, checklistID, configID)
	if err != nil {
		return fmt.Errorf("link config %d to checklist %s: %w", configID, checklistID, err)
	}
	return nil
}

// List returns configs ordered by name.
func (r *ConfigRepo) List(ctx context.Context, limit, offset int) ([]Config, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT id, name, url, description, created_at, updated_at
		FROM configs ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		var c Config
		if err := rows.Scan(&c.ID, &c.Name, &c.URL, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}
