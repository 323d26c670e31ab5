// Package store persists the QA knowledge base in Postgres: sections,
// checklists, testcases, configs, content chunks and ingestion jobs.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	pool *pgxpool.Pool
	once sync.Once
)

// InitDB initializes the database connection pool using the DATABASE_URL
// environment variable.
func InitDB(ctx context.Context) error {
	var err error
	once.Do(func() {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			err = fmt.Errorf("DATABASE_URL environment variable not set")
			return
		}

		config, parseErr := pgxpool.ParseConfig(dbURL)
		if parseErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", parseErr)
			return
		}

		pool, err = pgxpool.NewWithConfig(ctx, config)
	})
	return err
}

// GetPool returns the database connection pool.
func GetPool() *pgxpool.Pool {
	return pool
}

// Close closes the database connection pool.
func Close() {
	if pool != nil {
		pool.Close()
	}
}

// Migrate creates the schema when it does not exist and seeds the default
// root sections.
func Migrate(ctx context.Context) error {
	p := GetPool()
	if p == nil {
		return fmt.Errorf("database pool not initialized")
	}

	for _, stmt := range schemaStatements {
		if _, err := p.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return seedDefaultSections(ctx)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS qa_sections (
		id BIGSERIAL PRIMARY KEY,
		confluence_page_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT,
		url TEXT NOT NULL,
		space_key TEXT NOT NULL,
		parent_section_id BIGINT REFERENCES qa_sections(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_qa_sections_space ON qa_sections(space_key)`,

	`CREATE TABLE IF NOT EXISTS configs (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		url TEXT,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS checklists (
		id TEXT PRIMARY KEY,
		confluence_page_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT,
		additional_content TEXT,
		url TEXT NOT NULL,
		space_key TEXT NOT NULL,
		section_id BIGINT NOT NULL REFERENCES qa_sections(id) ON DELETE CASCADE,
		subcategory TEXT,
		content_hash CHAR(32) NOT NULL,
		version INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_checklists_title ON checklists(title)`,
	`CREATE INDEX IF NOT EXISTS idx_checklists_hash ON checklists(content_hash)`,

	`CREATE TABLE IF NOT EXISTS checklist_configs (
		checklist_id TEXT NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
		config_id BIGINT NOT NULL REFERENCES configs(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (checklist_id, config_id)
	)`,

	`CREATE TABLE IF NOT EXISTS testcases (
		id BIGSERIAL PRIMARY KEY,
		checklist_id TEXT NOT NULL REFERENCES checklists(id) ON DELETE CASCADE,
		step TEXT NOT NULL,
		expected_result TEXT NOT NULL,
		screenshot TEXT,
		priority TEXT,
		test_group TEXT,
		functionality TEXT,
		order_index INT NOT NULL DEFAULT 0,
		config_id BIGINT REFERENCES configs(id) ON DELETE SET NULL,
		qa_auto_coverage TEXT,
		embedding JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_testcases_checklist ON testcases(checklist_id)`,
	`CREATE INDEX IF NOT EXISTS idx_testcases_functionality ON testcases(functionality)`,
	`CREATE INDEX IF NOT EXISTS idx_testcases_priority ON testcases(priority)`,

	`CREATE TABLE IF NOT EXISTS page_chunks (
		id BIGSERIAL PRIMARY KEY,
		confluence_page_id TEXT NOT NULL,
		checklist_id TEXT REFERENCES checklists(id) ON DELETE CASCADE,
		ordinal INT NOT NULL,
		content TEXT NOT NULL,
		embedding JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_page_chunks_page ON page_chunks(confluence_page_id)`,

	`CREATE TABLE IF NOT EXISTS ingestion_jobs (
		id UUID PRIMARY KEY,
		status TEXT NOT NULL,
		pages_total INT NOT NULL DEFAULT 0,
		pages_done INT NOT NULL DEFAULT 0,
		pages_skipped INT NOT NULL DEFAULT 0,
		pages_failed INT NOT NULL DEFAULT 0,
		detail TEXT,
		started_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		finished_at TIMESTAMPTZ
	)`,
}

// Default root sections, created once on an empty database.
var defaultSections = []struct {
	pageID, title, description, url, space string
}{
	{"root-web", "Checklist WEB", "Web product checklists", "about:blank", "QA"},
	{"root-mob", "Checklist MOB", "Mobile product checklists", "about:blank", "QA"},
}

func seedDefaultSections(ctx context.Context) error {
	p := GetPool()

	var count int
	if err := p.QueryRow(ctx, `SELECT count(*) FROM qa_sections`).Scan(&count); err != nil {
		return fmt.Errorf("count sections: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range defaultSections {
		_, err := p.Exec(ctx, `
			INSERT INTO qa_sections (confluence_page_id, title, description, url, space_key)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (confluence_page_id) DO NOTHING`,
			s.pageID, s.title, s.description, s.url, s.space)
		if err != nil {
			return fmt.Errorf("seed section %s: %w", s.title, err)
		}
	}
	return nil
}
