package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nzdialect/core"
)

func TestBreakingChanges(t *testing.T) {
	changes := Diff(reflected(), declared()).BreakingChanges()
	require.Len(t, changes, 3)

	assert.Equal(t, BreakingChange{
		Severity:    SeverityCritical,
		Description: "table will be dropped; all data will be lost",
		Table:       "staging",
		Object:      "staging",
		ObjectType:  "TABLE",
	}, changes[0])
	assert.Equal(t, SeverityCritical, changes[1].Severity)
	assert.Equal(t, "legacy", changes[1].Object)
	assert.Equal(t, SeverityInfo, changes[2].Severity)
	assert.Equal(t, "type widens from VARCHAR(20) to VARCHAR(40)", changes[2].Description)
}

func TestIsWidening(t *testing.T) {
	tests := []struct {
		name     string
		from, to core.Type
		want     bool
	}{
		{"longer varchar", core.Type{Kind: core.KindVarchar, Length: 10}, core.Type{Kind: core.KindVarchar, Length: 20}, true},
		{"shorter varchar", core.Type{Kind: core.KindVarchar, Length: 20}, core.Type{Kind: core.KindVarchar, Length: 10}, false},
		{"integer to bigint", core.Type{Kind: core.KindInteger}, core.Type{Kind: core.KindBigInt}, true},
		{"bigint to smallint", core.Type{Kind: core.KindBigInt}, core.Type{Kind: core.KindSmallInt}, false},
		{"more numeric digits", core.Type{Kind: core.KindNumeric, Precision: 10, Scale: 2}, core.Type{Kind: core.KindNumeric, Precision: 14, Scale: 4}, true},
		{"fewer integer digits", core.Type{Kind: core.KindNumeric, Precision: 10, Scale: 2}, core.Type{Kind: core.KindNumeric, Precision: 10, Scale: 4}, false},
		{"varchar to nvarchar", core.Type{Kind: core.KindVarchar, Length: 10}, core.Type{Kind: core.KindNVarchar, Length: 10}, true},
		{"varchar to integer", core.Type{Kind: core.KindVarchar, Length: 10}, core.Type{Kind: core.KindInteger}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isWidening(tt.from, tt.to))
		})
	}
}

func TestBreakingChangesColumns(t *testing.T) {
	oldT := &core.Table{Name: "t", Columns: []*core.Column{
		{Name: "a", Type: core.Type{Kind: core.KindInteger}, Nullable: true},
	}}
	newT := &core.Table{Name: "t", Columns: []*core.Column{
		{Name: "a", Type: core.Type{Kind: core.KindSmallInt}},
		{Name: "b", Type: core.Type{Kind: core.KindInteger}},
	}}

	changes := Diff(&core.Database{Tables: []*core.Table{oldT}}, &core.Database{Tables: []*core.Table{newT}}).BreakingChanges()
	require.Len(t, changes, 3)
	for _, c := range changes {
		assert.Equal(t, SeverityBreaking, c.Severity, c.Description)
	}
	assert.Equal(t, "b", changes[0].Object)
	assert.Contains(t, changes[1].Description, "type changes from INTEGER to SMALLINT")
	assert.Equal(t, "column becomes NOT NULL; existing NULL values violate it", changes[2].Description)
	assert.Equal(t, "BREAKING", changes[0].Severity.String())
}
