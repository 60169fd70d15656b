package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nzdialect/core"
	"nzdialect/internal/diff"
)

func strPtr(s string) *string { return &s }

func liveDB() *core.Database {
	return &core.Database{Name: "sales", Tables: []*core.Table{
		{
			Schema:       "admin",
			Name:         "orders",
			PrimaryKey:   []string{"id"},
			DistributeOn: core.DistributeOn{"id"},
			Columns: []*core.Column{
				{Name: "id", Type: core.Type{Kind: core.KindBigInt}},
				{Name: "status", Type: core.Type{Kind: core.KindVarchar, Length: 20}, Default: strPtr(`'new'::"VARCHAR"`)},
				{Name: "legacy", Type: core.Type{Kind: core.KindInteger}, Nullable: true},
			},
		},
		{
			Schema:       "admin",
			Name:         "staging",
			DistributeOn: core.DistributeRandom(),
			Columns:      []*core.Column{{Name: "x", Type: core.Type{Kind: core.KindInteger}}},
		},
	}}
}

func wantedDB() *core.Database {
	return &core.Database{Name: "sales", Tables: []*core.Table{
		{
			Name:         "orders",
			PrimaryKey:   []string{"id"},
			DistributeOn: core.DistributeOn{"id"},
			Columns: []*core.Column{
				{Name: "id", Type: core.Type{Kind: core.KindBigInt}},
				{Name: "status", Type: core.Type{Kind: core.KindVarchar, Length: 40}, Default: strPtr("'open'")},
				{Name: "note", Type: core.Type{Kind: core.KindNVarchar, Length: 200}, Nullable: true},
			},
		},
		{
			Name:         "events",
			DistributeOn: core.DistributeRandom(),
			Columns:      []*core.Column{{Name: "at", Type: core.Type{Kind: core.KindTimestamp}}},
		},
	}}
}

func TestPlan(t *testing.T) {
	s, err := Plan(diff.Diff(liveDB(), wantedDB()), PlanOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"CREATE TABLE events (\n  at TIMESTAMP NOT NULL\n) DISTRIBUTE ON RANDOM",
		"ALTER TABLE admin.orders ADD COLUMN note NVARCHAR(200)",
		"ALTER TABLE admin.orders MODIFY COLUMN (status VARCHAR(40))",
		"ALTER TABLE admin.orders ALTER COLUMN status SET DEFAULT 'open'",
	}, s.SQLStatements())
	assert.Equal(t, []string{
		"DROP TABLE events",
		"ALTER TABLE admin.orders DROP COLUMN note RESTRICT",
		`ALTER TABLE admin.orders ALTER COLUMN status SET DEFAULT 'new'::"VARCHAR"`,
	}, s.RollbackStatements())

	assert.Equal(t, []string{
		"column admin.orders.legacy is not in the schema; rerun with --unsafe to drop it",
		"table admin.staging is not in the schema; rerun with --unsafe to drop it",
	}, s.InfoNotes())
	assert.Empty(t, s.UnresolvedNotes())
}

func TestPlanUnsafe(t *testing.T) {
	s, err := Plan(diff.Diff(liveDB(), wantedDB()), PlanOptions{Unsafe: true})
	require.NoError(t, err)

	stmts := s.SQLStatements()
	require.Len(t, stmts, 6)
	assert.Equal(t, "ALTER TABLE admin.orders DROP COLUMN legacy RESTRICT", stmts[4])
	assert.Equal(t, "DROP TABLE admin.staging", stmts[5])

	rollback := s.RollbackStatements()
	assert.Contains(t, rollback, "ALTER TABLE admin.orders ADD COLUMN legacy INTEGER")
	assert.Contains(t, rollback, "CREATE TABLE admin.staging (\n  x INTEGER NOT NULL\n) DISTRIBUTE ON RANDOM")
	assert.Empty(t, s.InfoNotes())
}

func TestPlanUnresolved(t *testing.T) {
	live := &core.Database{Tables: []*core.Table{{
		Name:         "t",
		DistributeOn: core.DistributeOn{"a"},
		Columns: []*core.Column{
			{Name: "a", Type: core.Type{Kind: core.KindInteger}},
			{Name: "b", Type: core.Type{Kind: core.KindVarchar, Length: 40}},
		},
	}}}
	wanted := &core.Database{Tables: []*core.Table{{
		Name:         "t",
		DistributeOn: core.DistributeRandom(),
		Columns: []*core.Column{
			{Name: "a", Type: core.Type{Kind: core.KindBigInt}, Nullable: true},
			{Name: "b", Type: core.Type{Kind: core.KindVarchar, Length: 10}},
		},
	}}}

	s, err := Plan(diff.Diff(live, wanted), PlanOptions{})
	require.NoError(t, err)
	assert.Empty(t, s.SQLStatements())

	notes := s.UnresolvedNotes()
	require.Len(t, notes, 4)
	assert.Contains(t, notes[0], "cannot change integer to bigint")
	assert.Contains(t, notes[1], "column t.a: nullable changes from false to true")
	assert.Contains(t, notes[2], "cannot change varchar(40) to varchar(10)")
	assert.Equal(t, "distribution of t changes from (a) to RANDOM; recreate the table with CREATE TABLE AS", notes[3])
}

func TestPlanAddedColumns(t *testing.T) {
	live := &core.Database{Tables: []*core.Table{{
		Name:    "t",
		Columns: []*core.Column{{Name: "a", Type: core.Type{Kind: core.KindInteger}}},
	}}}
	wanted := &core.Database{Tables: []*core.Table{{
		Name: "t",
		Columns: []*core.Column{
			{Name: "a", Type: core.Type{Kind: core.KindInteger}},
			{Name: "b", Type: core.Type{Kind: core.KindInteger}},
			{Name: "doc", RawType: "XML", Nullable: true},
		},
	}}}

	_, err := Plan(diff.Diff(live, wanted), PlanOptions{})
	var ute *core.UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "doc", ute.Column)

	s, err := Plan(diff.Diff(live, wanted), PlanOptions{SkipUnsupported: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"ALTER TABLE t ADD COLUMN b INTEGER NOT NULL"}, s.SQLStatements())

	notes := s.InfoNotes()
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0], "column t.b is NOT NULL without a default")
	assert.Contains(t, notes[1], "skipped column t.doc")
}

func TestPlanNoChanges(t *testing.T) {
	s, err := Plan(diff.Diff(liveDB(), liveDB()), PlanOptions{Unsafe: true})
	require.NoError(t, err)
	assert.Empty(t, s.Operations)

	_, err = Plan(nil, PlanOptions{})
	require.Error(t, err)
}

func TestPlanKeepsDistributionColumns(t *testing.T) {
	live := &core.Database{Tables: []*core.Table{{
		Name:         "t",
		DistributeOn: core.DistributeOn{"a"},
		Columns: []*core.Column{
			{Name: "a", Type: core.Type{Kind: core.KindInteger}},
			{Name: "b", Type: core.Type{Kind: core.KindInteger}},
		},
	}}}
	wanted := &core.Database{Tables: []*core.Table{{
		Name:    "t",
		Columns: []*core.Column{{Name: "b", Type: core.Type{Kind: core.KindInteger}}},
	}}}

	s, err := Plan(diff.Diff(live, wanted), PlanOptions{Unsafe: true})
	require.NoError(t, err)
	assert.Empty(t, s.SQLStatements())
	assert.Equal(t, []string{"column t.a is part of the distribution key and cannot be dropped"}, s.UnresolvedNotes())
}
