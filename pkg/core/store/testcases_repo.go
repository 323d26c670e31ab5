package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"qamind/pkg/core/embed"
	"qamind/pkg/core/extract"
)

// TestcaseRepo handles testcases rows.
type TestcaseRepo struct{}

func NewTestcaseRepo() *TestcaseRepo {
	return &TestcaseRepo{}
}

// ReplaceForChecklist swaps a checklist's testcases for the given merged
// set, resolving config names to config rows. Runs in one transaction so a
// failed ingest never leaves a half-replaced checklist.
func (r *TestcaseRepo) ReplaceForChecklist(ctx context.Context, checklistID string, cases []extract.RawTestCase) ([]int64, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM testcases WHERE checklist_id = $1`, checklistID); err != nil {
		return nil, fmt.Errorf("clear testcases for %s: %w", checklistID, err)
	}

	// Config rows and links join the transaction: a rollback must not leave
	// links for testcases that were never committed.
	configs := NewConfigRepo()
	ids := make([]int64, 0, len(cases))
	for _, tc := range cases {
		var configID *int64
		if tc.Config != nil {
			id, err := configs.resolveOrCreate(ctx, tx, *tc.Config)
			if err != nil {
				return nil, err
			}
			configID = &id
			if err := configs.linkChecklist(ctx, tx, checklistID, id); err != nil {
				return nil, err
			}
		}

		var priority *string
		if tc.Priority != nil {
			p := string(*tc.Priority)
			priority = &p
		}
		group := string(tc.TestGroup)

		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO testcases
				(checklist_id, step, expected_result, screenshot, priority, test_group,
				 functionality, order_index, config_id, qa_auto_coverage)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			checklistID, tc.Step, tc.ExpectedResult, tc.Screenshot, priority, group,
			tc.Functionality, tc.OrderIndex, configID, tc.QAAutoCoverage,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert testcase: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return ids, nil
}

// UpdateEmbedding stores the vector for one testcase. A nil vector clears
// the column.
func (r *TestcaseRepo) UpdateEmbedding(ctx context.Context, id int64, vector []float32) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	var payload any
	if vector != nil {
		data, err := json.Marshal(vector)
		if err != nil {
			return fmt.Errorf("marshal embedding: %w", err)
		}
		payload = data
	}

	_, err := pool.Exec(ctx,
		`UPDATE testcases SET embedding = $1, updated_at = now() WHERE id = $2`,
		payload, id)
	if err != nil {
		return fmt.Errorf("update embedding %d: %w", id, err)
	}
	return nil
}

// OrderedForChecklist returns a checklist's testcases in order_index order.
func (r *TestcaseRepo) OrderedForChecklist(ctx context.Context, checklistID string) ([]Testcase, error) {
	return r.query(ctx, `WHERE t.checklist_id = $1 ORDER BY t.order_index`, checklistID)
}

// SearchText finds testcases whose step, expected result or functionality
// contains the query substring, with optional filters.
func (r *TestcaseRepo) SearchText(ctx context.Context, query string, f Filter, limit int) ([]Testcase, error) {
	where := `WHERE (t.step ILIKE '%' || $1 || '%'
		OR t.expected_result ILIKE '%' || $1 || '%'
		OR t.functionality ILIKE '%' || $1 || '%')`
	args := []any{query}
	where, args = f.apply(where, args)
	where += fmt.Sprintf(` ORDER BY t.checklist_id, t.order_index LIMIT %d`, limit)
	return r.query(ctx, where, args...)
}

// Filter narrows testcase queries.
type Filter struct {
	ChecklistID   string
	TestGroup     string
	Functionality string
	Priority      string
}

func (f Filter) apply(where string, args []any) (string, []any) {
	if f.ChecklistID != "" {
		args = append(args, f.ChecklistID)
		where += fmt.Sprintf(" AND t.checklist_id = $%d", len(args))
	}
	if f.TestGroup != "" {
		args = append(args, f.TestGroup)
		where += fmt.Sprintf(" AND t.test_group = $%d", len(args))
	}
	if f.Functionality != "" {
		args = append(args, f.Functionality)
		where += fmt.Sprintf(" AND t.functionality = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		where += fmt.Sprintf(" AND t.priority = $%d", len(args))
	}
	return where, args
}

// SemanticSearch ranks stored testcase embeddings against the query vector.
// Ranking happens in process; the corpus is small enough that shipping every
// candidate vector beats maintaining a vector index.
func (r *TestcaseRepo) SemanticSearch(ctx context.Context, queryVector []float32, f Filter, limit int, minSimilarity float64) ([]SearchHit, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	where := `WHERE t.embedding IS NOT NULL`
	var args []any
	where, args = f.apply(where, args)

	rows, err := pool.Query(ctx, `
		SELECT t.id, t.checklist_id, t.step, t.expected_result, t.screenshot, t.priority,
		       t.test_group, t.functionality, t.order_index, t.config_id, t.qa_auto_coverage,
		       t.embedding, t.created_at, t.updated_at, c.title, cf.name
		FROM testcases t
		JOIN checklists c ON c.id = t.checklist_id
		LEFT JOIN configs cf ON cf.id = t.config_id
		`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var (
			tc           Testcase
			emb          []byte
			title        string
			configName   *string
			priorityStr  *string
			testGroupStr *string
		)
		if err := rows.Scan(&tc.ID, &tc.ChecklistID, &tc.Step, &tc.ExpectedResult,
			&tc.Screenshot, &priorityStr, &testGroupStr, &tc.Functionality, &tc.OrderIndex,
			&tc.ConfigID, &tc.QAAutoCoverage, &emb, &tc.CreatedAt, &tc.UpdatedAt,
			&title, &configName); err != nil {
			return nil, fmt.Errorf("scan testcase: %w", err)
		}
		setEnums(&tc, priorityStr, testGroupStr)
		if err := json.Unmarshal(emb, &tc.Embedding); err != nil {
			continue
		}

		similarity := embed.Cosine(queryVector, tc.Embedding)
		if similarity < minSimilarity {
			continue
		}
		hits = append(hits, SearchHit{
			Testcase:       tc,
			Similarity:     similarity,
			ChecklistTitle: title,
			ConfigName:     configName,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// ListFunctionalities returns distinct functionality labels with testcase
// counts, most used first.
func (r *TestcaseRepo) ListFunctionalities(ctx context.Context, limit, offset int) (map[string]int, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT functionality, count(*)
		FROM testcases
		WHERE functionality IS NOT NULL AND functionality <> ''
		GROUP BY functionality
		ORDER BY count(*) DESC, functionality
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list functionalities: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan functionality: %w", err)
		}
		out[name] = count
	}
	return out, rows.Err()
}

func (r *TestcaseRepo) query(ctx context.Context, where string, args ...any) ([]Testcase, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT t.id, t.checklist_id, t.step, t.expected_result, t.screenshot, t.priority,
		       t.test_group, t.functionality, t.order_index, t.config_id, t.qa_auto_coverage,
		       t.created_at, t.updated_at
		FROM testcases t
		`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query testcases: %w", err)
	}
	defer rows.Close()

	var out []Testcase
	for rows.Next() {
		var tc Testcase
		var priorityStr, testGroupStr *string
		if err := rows.Scan(&tc.ID, &tc.ChecklistID, &tc.Step, &tc.ExpectedResult,
			&tc.Screenshot, &priorityStr, &testGroupStr, &tc.Functionality,
			&tc.OrderIndex, &tc.ConfigID, &tc.QAAutoCoverage, &tc.CreatedAt, &tc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan testcase: %w", err)
		}
		setEnums(&tc, priorityStr, testGroupStr)
		out = append(out, tc)
	}
	return out, rows.Err()
}

func setEnums(tc *Testcase, priority, group *string) {
	if priority != nil {
		p := extract.Priority(*priority)
		tc.Priority = &p
	}
	if group != nil && *group != "" {
		g := extract.TestGroup(*group)
		tc.TestGroup = &g
	}
}
