package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ChecklistRepo handles checklists rows.
type ChecklistRepo struct{}

func NewChecklistRepo() *ChecklistRepo {
	return &ChecklistRepo{}
}

// Upsert creates or updates a checklist. The row id is the Confluence page
// id.
func (r *ChecklistRepo) Upsert(ctx context.Context, c *Checklist) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO checklists
			(id, confluence_page_id, title, description, additional_content, url,
			 space_key, section_id, subcategory, content_hash, version)
		VALUES ($1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			additional_content = EXCLUDED.additional_content,
			url = EXCLUDED.url,
			space_key = EXCLUDED.space_key,
			section_id = EXCLUDED.section_id,
			subcategory = EXCLUDED.subcategory,
			content_hash = EXCLUDED.content_hash,
			version = EXCLUDED.version,
			updated_at = now()`,
		c.ConfluencePageID, c.Title, c.Description, c.AdditionalContent, c.URL,
		c.SpaceKey, c.SectionID, c.Subcategory, c.ContentHash, c.Version)
	if err != nil {
		return fmt.Errorf("upsert checklist %s: %w", c.ConfluencePageID, err)
	}
	return nil
}

// ByPageID loads a checklist by Confluence page id.
func (r *ChecklistRepo) ByPageID(ctx context.Context, pageID string) (*Checklist, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var c Checklist
	err := pool.QueryRow(ctx, `
		SELECT id, confluence_page_id, title, description, additional_content, url,
		       space_key, section_id, subcategory, content_hash, version, created_at, updated_at
		FROM checklists WHERE confluence_page_id = $1`, pageID,
	).Scan(&c.ID, &c.ConfluencePageID, &c.Title, &c.Description, &c.AdditionalContent,
		&c.URL, &c.SpaceKey, &c.SectionID, &c.Subcategory, &c.ContentHash, &c.Version,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load checklist %s: %w", pageID, err)
	}
	return &c, nil
}

// ContentHash returns the stored content hash for a page, or "" when the
// page has never been ingested.
func (r *ChecklistRepo) ContentHash(ctx context.Context, pageID string) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	var hash string
	err := pool.QueryRow(ctx,
		`SELECT content_hash FROM checklists WHERE confluence_page_id = $1`, pageID,
	).Scan(&hash)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("content hash %s: %w", pageID, err)
	}
	return hash, nil
}

// ListForFunctionality returns checklists that have at least one testcase
// with the given functionality label.
func (r *ChecklistRepo) ListForFunctionality(ctx context.Context, functionality string, limit int) ([]Checklist, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT DISTINCT c.id, c.confluence_page_id, c.title, c.description, c.additional_content,
		       c.url, c.space_key, c.section_id, c.subcategory, c.content_hash, c.version,
		       c.created_at, c.updated_at
		FROM checklists c
		JOIN testcases t ON t.checklist_id = c.id
		WHERE t.functionality = $1
		ORDER BY c.title
		LIMIT $2`, functionality, limit)
	if err != nil {
		return nil, fmt.Errorf("checklists for functionality %q: %w", functionality, err)
	}
	defer rows.Close()

	var out []Checklist
	for rows.Next() {
		var c Checklist
		if err := rows.Scan(&c.ID, &c.ConfluencePageID, &c.Title, &c.Description,
			&c.AdditionalContent, &c.URL, &c.SpaceKey, &c.SectionID, &c.Subcategory,
			&c.ContentHash, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan checklist: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
