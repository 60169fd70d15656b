package apply

import (
	"fmt"
	"slices"
	"strings"
)

// StatementAnalysis contains the results of analyzing a SQL statement.
type StatementAnalysis struct {
	IsBlocking        bool
	BlockingReasons   []string
	IsDestructive     bool
	DestructiveReason string
	IsTransactionSafe bool
	TxUnsafeReason    string
	StatementType     string
}

// nonTransactional lists statements Netezza refuses inside a BEGIN/COMMIT block.
var nonTransactional = map[string]string{
	"CREATE DATABASE": "CREATE DATABASE cannot run inside a transaction block",
	"DROP DATABASE":   "DROP DATABASE cannot run inside a transaction block",
	"GROOM TABLE":     "GROOM TABLE cannot run inside a transaction block",
}

// StatementAnalyzer classifies Netezza statements by their leading keywords.
type StatementAnalyzer struct{}

func NewStatementAnalyzer() *StatementAnalyzer {
	return &StatementAnalyzer{}
}

// AnalyzeStatement classifies a single statement.
func (a *StatementAnalyzer) AnalyzeStatement(sql string) *StatementAnalysis {
	words := keywords(sql)
	analysis := &StatementAnalysis{
		IsTransactionSafe: true,
		StatementType:     statementType(words),
	}
	if len(words) == 0 {
		return analysis
	}

	switch analysis.StatementType {
	case "DROP TABLE":
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP TABLE will permanently delete the table and all its data"
	case "DROP DATABASE":
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP DATABASE will permanently delete the entire database"
	case "TRUNCATE":
		analysis.IsDestructive = true
		analysis.DestructiveReason = "TRUNCATE will permanently delete all rows in the table"
	case "DELETE", "UPDATE":
		if !slices.Contains(words, "WHERE") {
			analysis.IsDestructive = true
			analysis.DestructiveReason = fmt.Sprintf("%s without WHERE affects every row", analysis.StatementType)
		}
	case "ALTER TABLE":
		a.analyzeAlterTable(words, analysis)
	case "GROOM TABLE":
		analysis.IsBlocking = true
		analysis.BlockingReasons = append(analysis.BlockingReasons, "GROOM TABLE rewrites the table and may run for a long time")
	}

	if reason, ok := nonTransactional[analysis.StatementType]; ok {
		analysis.IsTransactionSafe = false
		analysis.TxUnsafeReason = reason
	}
	return analysis
}

func (a *StatementAnalyzer) analyzeAlterTable(words []string, analysis *StatementAnalysis) {
	switch {
	case containsSequence(words, "DROP", "COLUMN"):
		analysis.IsDestructive = true
		analysis.DestructiveReason = "DROP COLUMN will permanently delete the column and its data"
		analysis.IsBlocking = true
		analysis.BlockingReasons = append(analysis.BlockingReasons,
			"DROP COLUMN creates a new table version; run GROOM TABLE ... VERSIONS afterwards")
	case containsSequence(words, "ADD", "COLUMN"):
		analysis.IsBlocking = true
		analysis.BlockingReasons = append(analysis.BlockingReasons,
			"ADD COLUMN creates a new table version; run GROOM TABLE ... VERSIONS afterwards")
	case containsSequence(words, "RENAME", "TO"):
		analysis.IsBlocking = true
		analysis.BlockingReasons = append(analysis.BlockingReasons, "RENAME takes an exclusive lock on the table")
	}
}

// AnalyzeStatements runs AnalyzeStatement on every statement and collects
// the warnings.
func (a *StatementAnalyzer) AnalyzeStatements(statements []string, unsafeAllowed bool) *PreflightResult {
	result := &PreflightResult{
		IsTransactional: true,
	}

	for _, stmt := range statements {
		analysis := a.AnalyzeStatement(stmt)
		if analysis.StatementType == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("empty statement: %q", stmt))
			continue
		}

		for _, reason := range analysis.BlockingReasons {
			result.Warnings = append(result.Warnings, Warning{
				Level:   WarnCaution,
				Message: fmt.Sprintf("Potentially blocking DDL: %s", reason),
				SQL:     stmt,
			})
		}
		if analysis.IsDestructive {
			msg := analysis.DestructiveReason
			if !unsafeAllowed {
				msg = fmt.Sprintf("%s (requires --unsafe flag)", msg)
			}
			result.Warnings = append(result.Warnings, Warning{Level: WarnDanger, Message: msg, SQL: stmt})
		}
		if !analysis.IsTransactionSafe {
			result.IsTransactional = false
			result.NonTxReasons = append(result.NonTxReasons, fmt.Sprintf("%s: %s", analysis.TxUnsafeReason, truncateSQL(stmt)))
		}
	}

	return result
}

// statementType names a statement by its first one or two keywords.
func statementType(words []string) string {
	if len(words) == 0 {
		return ""
	}
	first := words[0]
	switch first {
	case "CREATE", "DROP", "ALTER", "GROOM", "GENERATE":
		if len(words) < 2 {
			return first
		}
		second := words[1]
		if first == "CREATE" && (second == "TEMP" || second == "TEMPORARY") && len(words) > 2 {
			second = words[2]
		}
		if first == "GENERATE" {
			return "GENERATE STATISTICS"
		}
		return first + " " + second
	case "TRUNCATE":
		return "TRUNCATE"
	default:
		return first
	}
}

func containsSequence(words []string, seq ...string) bool {
	for i := 0; i+len(seq) <= len(words); i++ {
		if slices.Equal(words[i:i+len(seq)], seq) {
			return true
		}
	}
	return false
}

// String formats the result for logs.
func (r *PreflightResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d warnings, transactional=%t", len(r.Warnings), r.IsTransactional)
	for _, e := range r.Errors {
		sb.WriteString("; ")
		sb.WriteString(e)
	}
	return sb.String()
}
