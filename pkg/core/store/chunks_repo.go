package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// ChunkRepo handles page_chunks rows.
type ChunkRepo struct{}

func NewChunkRepo() *ChunkRepo {
	return &ChunkRepo{}
}

// ReplaceForPage swaps the stored chunks of a page for a fresh set.
func (r *ChunkRepo) ReplaceForPage(ctx context.Context, pageID string, checklistID *string, chunks []Chunk) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM page_chunks WHERE confluence_page_id = $1`, pageID); err != nil {
		return fmt.Errorf("clear chunks for %s: %w", pageID, err)
	}

	for i, chunk := range chunks {
		var payload any
		if chunk.Embedding != nil {
			data, err := json.Marshal(chunk.Embedding)
			if err != nil {
				return fmt.Errorf("marshal chunk embedding: %w", err)
			}
			payload = data
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO page_chunks (confluence_page_id, checklist_id, ordinal, content, embedding)
			VALUES ($1, $2, $3, $4, $5)`,
			pageID, checklistID, i, chunk.Content, payload)
		if err != nil {
			return fmt.Errorf("insert chunk %d for %s: %w", i, pageID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ForPage returns a page's chunks in ordinal order.
func (r *ChunkRepo) ForPage(ctx context.Context, pageID string) ([]Chunk, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT id, confluence_page_id, checklist_id, ordinal, content, embedding, created_at
		FROM page_chunks WHERE confluence_page_id = $1 ORDER BY ordinal`, pageID)
	if err != nil {
		return nil, fmt.Errorf("chunks for %s: %w", pageID, err)
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var c Chunk
		var emb []byte
		if err := rows.Scan(&c.ID, &c.ConfluencePageID, &c.ChecklistID, &c.Ordinal,
			&c.Content, &emb, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if emb != nil {
			_ = json.Unmarshal(emb, &c.Embedding)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
