package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SectionRepo handles qa_sections rows.
type SectionRepo struct{}

func NewSectionRepo() *SectionRepo {
	return &SectionRepo{}
}

// Upsert creates or updates a section by its Confluence page id and returns
// the row id.
func (r *SectionRepo) Upsert(ctx context.Context, s *Section) (int64, error) {
	pool := GetPool()
	if pool == nil {
		return 0, fmt.Errorf("database pool not initialized")
	}

	var id int64
	err := pool.QueryRow(ctx, `
		INSERT INTO qa_sections (confluence_page_id, title, description, url, space_key, parent_section_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (confluence_page_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			space_key = EXCLUDED.space_key,
			updated_at = now()
		RETURNING id`,
		s.ConfluencePageID, s.Title, s.Description, s.URL, s.SpaceKey, s.ParentSectionID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert section: %w", err)
	}
	return id, nil
}

// ByPageID loads a section by Confluence page id.
func (r *SectionRepo) ByPageID(ctx context.Context, pageID string) (*Section, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var s Section
	err := pool.QueryRow(ctx, `
		SELECT id, confluence_page_id, title, description, url, space_key, parent_section_id, created_at, updated_at
		FROM qa_sections WHERE confluence_page_id = $1`, pageID,
	).Scan(&s.ID, &s.ConfluencePageID, &s.Title, &s.Description, &s.URL, &s.SpaceKey,
		&s.ParentSectionID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load section %s: %w", pageID, err)
	}
	return &s, nil
}

// DefaultForSpace returns the first root section for a space, or the first
// root section overall when the space has none.
func (r *SectionRepo) DefaultForSpace(ctx context.Context, spaceKey string) (*Section, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var s Section
	err := pool.QueryRow(ctx, `
		SELECT id, confluence_page_id, title, description, url, space_key, parent_section_id, created_at, updated_at
		FROM qa_sections
		WHERE parent_section_id IS NULL
		ORDER BY (space_key = $1) DESC, id
		LIMIT 1`, spaceKey,
	).Scan(&s.ID, &s.ConfluencePageID, &s.Title, &s.Description, &s.URL, &s.SpaceKey,
		&s.ParentSectionID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("default section: %w", err)
	}
	return &s, nil
}

// List returns sections ordered by id.
func (r *SectionRepo) List(ctx context.Context, limit, offset int) ([]Section, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT id, confluence_page_id, title, description, url, space_key, parent_section_id, created_at, updated_at
		FROM qa_sections ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(&s.ID, &s.ConfluencePageID, &s.Title, &s.Description, &s.URL,
			&s.SpaceKey, &s.ParentSectionID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}
