package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptAccessors(t *testing.T) {
	s := &Script{}
	s.AddStatementWithRollback("CREATE TABLE a (x INTEGER)", "DROP TABLE a")
	s.AddStatement("  GRANT SELECT ON a TO public  ")
	s.AddNote("table a has no DISTRIBUTE ON")
	s.AddUnresolved("table b not generated")
	s.AddStatement("   ")
	s.AddNote("")
	s.AddUnresolved("")

	assert.Len(t, s.Plan(), 4)
	assert.Equal(t, []string{"CREATE TABLE a (x INTEGER)", "GRANT SELECT ON a TO public"}, s.SQLStatements())
	assert.Equal(t, []string{"DROP TABLE a"}, s.RollbackStatements())
	assert.Equal(t, []string{"table a has no DISTRIBUTE ON"}, s.InfoNotes())
	assert.Equal(t, []string{"table b not generated"}, s.UnresolvedNotes())
}

func TestScriptDedupe(t *testing.T) {
	tests := []struct {
		name       string
		operations []Operation
		want       []Operation
	}{
		{
			name:       "empty",
			operations: nil,
			want:       nil,
		},
		{
			name: "repeated notes",
			operations: []Operation{
				{Kind: OperationNote, SQL: "note"},
				{Kind: OperationNote, SQL: " note "},
				{Kind: OperationUnresolved, UnresolvedReason: "why"},
				{Kind: OperationUnresolved, UnresolvedReason: "why"},
			},
			want: []Operation{
				{Kind: OperationNote, SQL: "note"},
				{Kind: OperationUnresolved, UnresolvedReason: "why"},
			},
		},
		{
			name: "repeated rollback keeps first",
			operations: []Operation{
				{Kind: OperationSQL, SQL: "DROP TABLE a"},
				{Kind: OperationSQL, SQL: "CREATE TABLE a (x INTEGER)", RollbackSQL: "DROP TABLE a"},
				{Kind: OperationSQL, SQL: "CREATE TABLE a (y INTEGER)", RollbackSQL: "DROP TABLE a"},
			},
			want: []Operation{
				{Kind: OperationSQL, SQL: "DROP TABLE a"},
				{Kind: OperationSQL, SQL: "CREATE TABLE a (x INTEGER)", RollbackSQL: "DROP TABLE a"},
				{Kind: OperationSQL, SQL: "CREATE TABLE a (y INTEGER)"},
			},
		},
		{
			name: "empty statements dropped",
			operations: []Operation{
				{Kind: OperationSQL, SQL: "  "},
				{Kind: OperationNote},
			},
			want: []Operation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Script{Operations: tt.operations}
			s.Dedupe()
			assert.Equal(t, tt.want, s.Operations)
		})
	}
}
