package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nzdialect/core"
)

func strPtr(s string) *string { return &s }

func reflected() *core.Database {
	return &core.Database{Name: "sales", Tables: []*core.Table{
		{
			Schema: "admin",
			Name:   "orders",
			Columns: []*core.Column{
				{Name: "id", Type: core.Type{Kind: core.KindBigInt}, RawType: "BIGINT", PrimaryKey: true},
				{Name: "status", Type: core.Type{Kind: core.KindVarchar, Length: 20}, RawType: "CHARACTER VARYING(20)",
					Default: strPtr(`'new'::"VARCHAR"`)},
				{Name: "legacy", Type: core.Type{Kind: core.KindInteger}, Nullable: true},
			},
			PrimaryKey:   []string{"id"},
			DistributeOn: core.DistributeOn{"id"},
		},
		{
			Name:         "staging",
			Columns:      []*core.Column{{Name: "x", Type: core.Type{Kind: core.KindInteger}}},
			DistributeOn: core.DistributeRandom(),
		},
	}}
}

func declared() *core.Database {
	return &core.Database{Name: "sales", Tables: []*core.Table{
		{
			Name: "ORDERS",
			Columns: []*core.Column{
				{Name: "id", Type: core.Type{Kind: core.KindBigInt}},
				{Name: "status", Type: core.Type{Kind: core.KindVarchar, Length: 40}, Default: strPtr("'new'")},
				{Name: "amount", Type: core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 2}, Nullable: true},
			},
			PrimaryKey:   []string{"id"},
			DistributeOn: core.DistributeOn{"ID"},
		},
		{
			Name:    "events",
			Columns: []*core.Column{{Name: "at", Type: core.Type{Kind: core.KindTimestamp}}},
		},
	}}
}

func TestDiff(t *testing.T) {
	d := Diff(reflected(), declared())
	require.False(t, d.IsEmpty())
	assert.Empty(t, d.Warnings)

	require.Len(t, d.AddedTables, 1)
	assert.Equal(t, "events", d.AddedTables[0].Name)
	require.Len(t, d.RemovedTables, 1)
	assert.Equal(t, "staging", d.RemovedTables[0].Name)

	require.Len(t, d.ModifiedTables, 1)
	td := d.ModifiedTables[0]
	assert.Equal(t, "admin.orders", td.Name)
	assert.Equal(t, "admin.orders", td.Target().QualifiedName())
	assert.Nil(t, td.Distribution, "hash columns compare case-insensitively")
	assert.Nil(t, td.PrimaryKey)

	require.Len(t, td.AddedColumns, 1)
	assert.Equal(t, "amount", td.AddedColumns[0].Name)
	require.Len(t, td.RemovedColumns, 1)
	assert.Equal(t, "legacy", td.RemovedColumns[0].Name)

	require.Len(t, td.ModifiedColumns, 1)
	cc := td.ModifiedColumns[0]
	assert.Equal(t, "status", cc.Name)
	assert.Equal(t, []*FieldChange{{Field: "type", Old: "VARCHAR(20)", New: "VARCHAR(40)"}}, cc.Changes,
		"the catalog cast on the default is ignored")
}

func TestDiffIdentical(t *testing.T) {
	d := Diff(reflected(), reflected())
	assert.True(t, d.IsEmpty())
	assert.Equal(t, "No differences detected.", d.String())
}

func TestDiffDistributionAndKey(t *testing.T) {
	oldT := &core.Table{
		Name:         "t",
		Columns:      []*core.Column{{Name: "a", Type: core.Type{Kind: core.KindInteger}}},
		DistributeOn: core.DistributeOn{"a"},
	}
	tests := []struct {
		name     string
		dist     core.DistributeOn
		pk       []string
		wantDist *FieldChange
		wantPK   *FieldChange
	}{
		{name: "default matches anything", dist: nil},
		{
			name:     "random",
			dist:     core.DistributeRandom(),
			wantDist: &FieldChange{Field: "distribute_on", Old: "(a)", New: "RANDOM"},
		},
		{
			name:   "primary key added",
			dist:   core.DistributeOn{"a"},
			pk:     []string{"a"},
			wantPK: &FieldChange{Field: "primary_key", Old: "()", New: "(a)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newT := &core.Table{Name: "t", Columns: oldT.Columns, DistributeOn: tt.dist, PrimaryKey: tt.pk}
			d := Diff(&core.Database{Tables: []*core.Table{oldT}}, &core.Database{Tables: []*core.Table{newT}})
			if tt.wantDist == nil && tt.wantPK == nil {
				assert.True(t, d.IsEmpty())
				return
			}
			require.Len(t, d.ModifiedTables, 1)
			assert.Equal(t, tt.wantDist, d.ModifiedTables[0].Distribution)
			assert.Equal(t, tt.wantPK, d.ModifiedTables[0].PrimaryKey)
		})
	}
}

func TestDiffColumnAttributes(t *testing.T) {
	oldC := &core.Column{Name: "n", Type: core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 2}, Default: strPtr("0::NUMERIC(12,2)")}
	tests := []struct {
		name string
		col  *core.Column
		want []*FieldChange
	}{
		{
			name: "same after cast is dropped",
			col:  &core.Column{Name: "N", Type: core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 2}, Default: strPtr("0")},
		},
		{
			name: "nullable and default",
			col:  &core.Column{Name: "n", Type: core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 2}, Nullable: true},
			want: []*FieldChange{
				{Field: "nullable", Old: "false", New: "true"},
				{Field: "default", Old: "0", New: ""},
			},
		},
		{
			name: "primary key is never nullable",
			col: &core.Column{Name: "n", Type: core.Type{Kind: core.KindNumeric, Precision: 12, Scale: 2},
				Nullable: true, PrimaryKey: true, Default: strPtr("0")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, columnFieldChanges(oldC, tt.col))
		})
	}
}

func TestDiffSchemaQualifiers(t *testing.T) {
	a := &core.Table{Schema: "admin", Name: "t"}
	b := &core.Table{Schema: "other", Name: "t"}
	d := Diff(&core.Database{Tables: []*core.Table{a}}, &core.Database{Tables: []*core.Table{b}})
	assert.Len(t, d.AddedTables, 1)
	assert.Len(t, d.RemovedTables, 1)

	unqualified := &core.Table{Name: "T"}
	d = Diff(&core.Database{Tables: []*core.Table{unqualified}}, &core.Database{Tables: []*core.Table{a}})
	assert.True(t, d.IsEmpty())
}

func TestDiffWarnings(t *testing.T) {
	dup := &core.Database{Tables: []*core.Table{{Name: "t"}, {Name: "T"}}}
	d := Diff(dup, &core.Database{})
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "old schema: case-insensitive name collision")

	d = Diff(nil, nil)
	assert.True(t, d.IsEmpty())
}

func TestDiffString(t *testing.T) {
	s := Diff(reflected(), declared()).String()

	assert.Contains(t, s, "Added tables:\n  - events\n")
	assert.Contains(t, s, "Removed tables:\n  - staging\n")
	assert.Contains(t, s, "\n  - admin.orders\n")
	assert.Contains(t, s, "    Added columns:\n      - amount NUMERIC(12,2)\n")
	assert.Contains(t, s, "    Removed columns:\n      - legacy\n")
	assert.Contains(t, s, `        type: "VARCHAR(20)" -> "VARCHAR(40)"`)
}
