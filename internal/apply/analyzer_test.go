package apply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeStatement(t *testing.T) {
	tests := []struct {
		sql         string
		stmtType    string
		destructive bool
		blocking    bool
		txSafe      bool
	}{
		{sql: "CREATE TABLE a (x INTEGER) DISTRIBUTE ON RANDOM", stmtType: "CREATE TABLE", txSafe: true},
		{sql: "create temp table a as (select 1)", stmtType: "CREATE TABLE", txSafe: true},
		{sql: "DROP TABLE a", stmtType: "DROP TABLE", destructive: true, txSafe: true},
		{sql: "DROP DATABASE sales", stmtType: "DROP DATABASE", destructive: true},
		{sql: "CREATE DATABASE sales", stmtType: "CREATE DATABASE"},
		{sql: "TRUNCATE TABLE a", stmtType: "TRUNCATE", destructive: true, txSafe: true},
		{sql: "DELETE FROM a", stmtType: "DELETE", destructive: true, txSafe: true},
		{sql: "DELETE FROM a WHERE id = 1", stmtType: "DELETE", txSafe: true},
		{sql: "UPDATE a SET note = 'no where here'", stmtType: "UPDATE", destructive: true, txSafe: true},
		{sql: "ALTER TABLE a ADD COLUMN b INTEGER", stmtType: "ALTER TABLE", blocking: true, txSafe: true},
		{sql: "ALTER TABLE a DROP COLUMN b CASCADE", stmtType: "ALTER TABLE", destructive: true, blocking: true, txSafe: true},
		{sql: "ALTER TABLE a RENAME TO b", stmtType: "ALTER TABLE", blocking: true, txSafe: true},
		{sql: "GROOM TABLE a VERSIONS", stmtType: "GROOM TABLE", blocking: true},
		{sql: "GENERATE STATISTICS ON a", stmtType: "GENERATE STATISTICS", txSafe: true},
		{sql: "SELECT 1", stmtType: "SELECT", txSafe: true},
	}

	a := NewStatementAnalyzer()
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			got := a.AnalyzeStatement(tt.sql)
			assert.Equal(t, tt.stmtType, got.StatementType)
			assert.Equal(t, tt.destructive, got.IsDestructive)
			assert.Equal(t, tt.blocking, got.IsBlocking)
			assert.Equal(t, tt.txSafe, got.IsTransactionSafe)
		})
	}
}

func TestAnalyzeStatements(t *testing.T) {
	a := NewStatementAnalyzer()
	stmts := []string{
		"CREATE TABLE a (x INTEGER)",
		"ALTER TABLE a ADD COLUMN y INTEGER",
		"DROP TABLE b",
		"GROOM TABLE a VERSIONS",
		"  ",
	}

	result := a.AnalyzeStatements(stmts, false)
	assert.False(t, result.IsTransactional)
	require.Len(t, result.NonTxReasons, 1)
	assert.Contains(t, result.NonTxReasons[0], "GROOM TABLE cannot run inside a transaction block")
	require.Len(t, result.Errors, 1)

	var levels []WarningLevel
	for _, w := range result.Warnings {
		levels = append(levels, w.Level)
	}
	assert.Equal(t, []WarningLevel{WarnCaution, WarnDanger, WarnCaution}, levels)
	assert.Contains(t, result.Warnings[1].Message, "(requires --unsafe flag)")
	assert.True(t, HasDestructiveOperations(result))

	result = a.AnalyzeStatements(stmts[:3], true)
	assert.True(t, result.IsTransactional)
	assert.NotContains(t, result.Warnings[1].Message, "--unsafe")
	assert.Contains(t, result.String(), "2 warnings, transactional=true")
}
