package store

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qamind/pkg/core/extract"
)

// Config resolution must be able to join an open transaction, so both the
// pool and pgx.Tx have to satisfy querier.
var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

func TestFilterApply(t *testing.T) {
	where, args := Filter{}.apply("WHERE 1=1", []any{"q"})
	if where != "WHERE 1=1" || len(args) != 1 {
		t.Errorf("empty filter changed the query: %q %v", where, args)
	}

	f := Filter{ChecklistID: "100.1", TestGroup: "GENERAL", Priority: "HIGH"}
	where, args = f.apply("WHERE 1=1", []any{"q"})
	want := "WHERE 1=1 AND t.checklist_id = $2 AND t.test_group = $3 AND t.priority = $4"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 4 || args[1] != "100.1" || args[3] != "HIGH" {
		t.Errorf("args = %v", args)
	}

	where, args = Filter{Functionality: "Login"}.apply("WHERE x", nil)
	if where != "WHERE x AND t.functionality = $1" || len(args) != 1 {
		t.Errorf("functionality-only filter: %q %v", where, args)
	}
}

func TestSetEnums(t *testing.T) {
	var tc Testcase
	setEnums(&tc, nil, nil)
	if tc.Priority != nil || tc.TestGroup != nil {
		t.Error("nil inputs should leave enums nil")
	}

	p, g := "HIGH", "CUSTOM"
	setEnums(&tc, &p, &g)
	if tc.Priority == nil || *tc.Priority != extract.PriorityHigh {
		t.Errorf("priority = %v", tc.Priority)
	}
	if tc.TestGroup == nil || *tc.TestGroup != extract.GroupCustom {
		t.Errorf("test group = %v", tc.TestGroup)
	}

	empty := ""
	var tc2 Testcase
	setEnums(&tc2, nil, &empty)
	if tc2.TestGroup != nil {
		t.Error("empty group string should stay nil")
	}
}
