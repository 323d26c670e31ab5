package store

import (
	"context"
	"fmt"
)

// StatsRepo aggregates coverage statistics across the knowledge base.
type StatsRepo struct{}

func NewStatsRepo() *StatsRepo {
	return &StatsRepo{}
}

func (r *StatsRepo) Collect(ctx context.Context) (*Statistics, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	stats := &Statistics{
		TestGroups:         make(map[string]int),
		Priorities:         make(map[string]int),
		TopFunctionalities: make(map[string]int),
		TopChecklists:      make(map[string]int),
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT count(*) FROM qa_sections`, &stats.Sections},
		{`SELECT count(*) FROM checklists`, &stats.Checklists},
		{`SELECT count(*) FROM testcases`, &stats.Testcases},
		{`SELECT count(*) FROM configs`, &stats.Configs},
		{`SELECT count(*) FROM testcases WHERE qa_auto_coverage IS NOT NULL AND qa_auto_coverage <> ''`, &stats.AutoCovered},
	}
	for _, c := range counts {
		if err := pool.QueryRow(ctx, c.query).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("collect statistics: %w", err)
		}
	}

	if err := r.groupCount(ctx, stats.TestGroups,
		`SELECT test_group, count(*) FROM testcases
		 WHERE test_group IS NOT NULL AND test_group <> ''
		 GROUP BY test_group`); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, stats.Priorities,
		`SELECT priority, count(*) FROM testcases
		 WHERE priority IS NOT NULL GROUP BY priority`); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, stats.TopFunctionalities,
		`SELECT functionality, count(*) FROM testcases
		 WHERE functionality IS NOT NULL GROUP BY functionality
		 ORDER BY count(*) DESC LIMIT 20`); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx, stats.TopChecklists,
		`SELECT c.title, count(t.id) FROM checklists c
		 JOIN testcases t ON t.checklist_id = c.id
		 GROUP BY c.id, c.title
		 ORDER BY count(t.id) DESC LIMIT 10`); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *StatsRepo) groupCount(ctx context.Context, into map[string]int, query string) error {
	pool := GetPool()

	rows, err := pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("collect statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan statistics row: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}
