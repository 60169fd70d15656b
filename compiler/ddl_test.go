package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nzdialect/core"
)

func strPtr(s string) *string { return &s }

func ordersTable() *core.Table {
	return &core.Table{
		Name: "orders",
		Columns: []*core.Column{
			{Name: "order_id", Type: core.Type{Kind: core.KindBigInt}, PrimaryKey: true},
			{Name: "status", Type: core.Type{Kind: core.KindByteInt}, Default: strPtr("0")},
			{Name: "Amount", Type: core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 2}, Nullable: true},
			{Name: "region", Type: core.Type{Kind: core.KindGeometry, Length: 200}, Nullable: true},
		},
		PrimaryKey: []string{"order_id"},
	}
}

func TestCreateTable(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name string
		dist core.DistributeOn
		tail string
	}{
		{name: "default distribution", dist: nil, tail: ")"},
		{name: "random", dist: core.DistributeRandom(), tail: ") DISTRIBUTE ON RANDOM"},
		{name: "hash columns", dist: core.DistributeOn{"order_id", "status"}, tail: ") DISTRIBUTE ON (order_id, status)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := ordersTable()
			tb.DistributeOn = tt.dist

			got, err := g.CreateTable(tb)
			require.NoError(t, err)

			want := "CREATE TABLE orders (\n" +
				"  order_id BIGINT NOT NULL,\n" +
				"  status BYTEINT DEFAULT 0 NOT NULL,\n" +
				"  \"Amount\" NUMERIC(12,2),\n" +
				"  region ST_GEOMETRY(200),\n" +
				"  PRIMARY KEY (order_id)\n" +
				tt.tail
			assert.Equal(t, want, got)
		})
	}
}

func TestCreateTableReportsEveryUnsupportedColumn(t *testing.T) {
	tb := ordersTable()
	tb.Columns = append(tb.Columns,
		&core.Column{Name: "payload", RawType: "xml", Nullable: true},
		&core.Column{Name: "shape", Type: core.Type{Kind: core.KindGeometry}, Nullable: true},
	)

	ddl, err := NewGenerator().CreateTable(tb)
	require.Error(t, err)
	assert.Empty(t, ddl)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok, "expected a joined error")
	errs := joined.Unwrap()
	require.Len(t, errs, 2)

	var cols []string
	for _, e := range errs {
		var ute *core.UnsupportedTypeError
		require.True(t, errors.As(e, &ute))
		assert.Equal(t, "orders", ute.Table)
		cols = append(cols, ute.Column)
	}
	assert.Equal(t, []string{"payload", "shape"}, cols)
}

func TestCreateTableRawTypeFallback(t *testing.T) {
	tb := &core.Table{
		Schema: "admin",
		Name:   "Shapes",
		Columns: []*core.Column{
			{Name: "id", RawType: "INTEGER"},
			{Name: "g", RawType: "st_geometry(64000)", Nullable: true},
		},
	}
	got, err := NewGenerator().CreateTable(tb)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE admin.\"Shapes\" (\n  id INTEGER NOT NULL,\n  g ST_GEOMETRY(64000)\n)", got)
}

func TestCreateTableColumnFlagsFormPrimaryKey(t *testing.T) {
	tb := ordersTable()
	tb.PrimaryKey = nil
	got, err := NewGenerator().CreateTable(tb)
	require.NoError(t, err)
	assert.Contains(t, got, "PRIMARY KEY (order_id)")
}

func TestCreateTableRejectsInvalidDistribution(t *testing.T) {
	tb := ordersTable()
	tb.DistributeOn = core.DistributeOn{"a", "b", "c", "d", "e"}
	_, err := NewGenerator().CreateTable(tb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 4")
}

func TestAddColumn(t *testing.T) {
	g := NewGenerator()
	tb := &core.Table{Name: "orders"}

	got, err := g.AddColumn(tb, &core.Column{Name: "note", Type: core.Type{Kind: core.KindNVarchar, Length: 200}, Nullable: true})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE orders ADD COLUMN note NVARCHAR(200)", got)

	_, err = g.AddColumn(tb, &core.Column{Name: "doc", RawType: "xml"})
	var ute *core.UnsupportedTypeError
	require.ErrorAs(t, err, &ute)
	assert.Equal(t, "doc", ute.Column)
}

func TestDropTable(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "DROP TABLE orders", g.DropTable(&core.Table{Name: "orders"}))
	assert.Equal(t, `DROP TABLE admin."Orders"`, g.DropTable(&core.Table{Schema: "admin", Name: "Orders"}))
}

func TestCreateTableAs(t *testing.T) {
	g := NewGenerator()

	got, err := g.CreateTableAs(CTAS{
		Name:         "recent_orders",
		Query:        "SELECT * FROM orders WHERE status = 1;",
		DistributeOn: core.DistributeOn{"order_id"},
	})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE recent_orders AS (SELECT * FROM orders WHERE status = 1) DISTRIBUTE ON (order_id)", got)

	got, err = g.CreateTableAs(CTAS{Name: "scratch", Temporary: true, Query: "SELECT 1", DistributeOn: core.DistributeRandom()})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TEMP TABLE scratch AS (SELECT 1) DISTRIBUTE ON RANDOM", got)

	got, err = g.CreateTableAs(CTAS{Name: "plain", Query: "SELECT 1"})
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE plain AS (SELECT 1)", got)
}

func TestCreateTableAsRejects(t *testing.T) {
	g := NewGenerator()
	for _, c := range []CTAS{
		{Query: "SELECT 1"},
		{Name: "t", Query: " ; "},
		{Name: "t", Query: "SELECT 1", DistributeOn: core.DistributeOn{"a", "random"}},
		{Name: "t", Query: "SELECT 1", DistributeOn: core.DistributeOn{"a", "b", "c", "d", "e"}},
	} {
		_, err := g.CreateTableAs(c)
		assert.Error(t, err, "%+v", c)
	}
}
