// Package script holds an ordered DDL script: statements paired with the
// statements that undo them, plus notes for the reader. It is what the
// ddl command prints.
package script

import (
	"strings"
)

// OperationKind tells what an Operation carries.
type OperationKind string

const (
	OperationSQL        OperationKind = "sql"
	OperationNote       OperationKind = "note"
	OperationUnresolved OperationKind = "unresolved"
)

// Operation is one entry of a Script. SQL holds the statement for
// OperationSQL and the text for OperationNote. RollbackSQL undoes SQL.
type Operation struct {
	Kind             OperationKind `json:"kind"`
	Table            string        `json:"table,omitempty"`
	SQL              string        `json:"sql,omitempty"`
	RollbackSQL      string        `json:"rollbackSql,omitempty"`
	UnresolvedReason string        `json:"unresolvedReason,omitempty"`
}

// Script contains all operations needed to create a schema.
type Script struct {
	Operations []Operation
}

// Plan returns the operations in order.
func (s *Script) Plan() []Operation {
	return s.Operations
}

// SQLStatements returns the statements to run, in order.
func (s *Script) SQLStatements() []string {
	return s.filterByKind(OperationSQL, func(op Operation) string { return op.SQL })
}

// RollbackStatements returns the undo statements in the order of the
// statements they undo. Run them in reverse.
func (s *Script) RollbackStatements() []string {
	return s.filterByKind(OperationSQL, func(op Operation) string { return op.RollbackSQL })
}

// UnresolvedNotes lists what could not be generated.
func (s *Script) UnresolvedNotes() []string {
	return s.filterByKind(OperationUnresolved, func(op Operation) string { return op.UnresolvedReason })
}

// InfoNotes lists information for the reader.
func (s *Script) InfoNotes() []string {
	return s.filterByKind(OperationNote, func(op Operation) string { return op.SQL })
}

func (s *Script) AddStatement(stmt string) {
	s.AddStatementWithRollback(stmt, "")
}

func (s *Script) AddStatementWithRollback(up, down string) {
	s.addTableStatement("", up, down)
}

func (s *Script) addTableStatement(table, up, down string) {
	up = strings.TrimSpace(up)
	down = strings.TrimSpace(down)
	if up == "" && down == "" {
		return
	}
	s.Operations = append(s.Operations, Operation{Kind: OperationSQL, Table: table, SQL: up, RollbackSQL: down})
}

func (s *Script) AddNote(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	s.Operations = append(s.Operations, Operation{Kind: OperationNote, SQL: msg})
}

func (s *Script) AddUnresolved(msg string) {
	if msg = strings.TrimSpace(msg); msg == "" {
		return
	}
	s.Operations = append(s.Operations, Operation{Kind: OperationUnresolved, UnresolvedReason: msg})
}

// Dedupe trims every operation, drops empty ones and repeated notes, and
// keeps only the first occurrence of each rollback statement.
func (s *Script) Dedupe() {
	n := len(s.Operations)
	if n == 0 {
		return
	}
	seenNote := make(map[string]struct{}, n)
	seenUnresolved := make(map[string]struct{}, n)
	seenRollback := make(map[string]struct{}, n)
	out := make([]Operation, 0, n)
	for i := range s.Operations {
		op := s.Operations[i]
		op.SQL = strings.TrimSpace(op.SQL)
		op.RollbackSQL = strings.TrimSpace(op.RollbackSQL)
		op.UnresolvedReason = strings.TrimSpace(op.UnresolvedReason)

		var keep bool
		switch op.Kind {
		case OperationSQL:
			keep = includeSQL(&op, seenRollback)
		case OperationNote:
			keep = firstSeen(op.SQL, seenNote)
		case OperationUnresolved:
			keep = firstSeen(op.UnresolvedReason, seenUnresolved)
		default:
			keep = true
		}
		if keep {
			out = append(out, op)
		}
	}
	s.Operations = out
}

func includeSQL(op *Operation, seenRollback map[string]struct{}) bool {
	if op.SQL == "" && op.RollbackSQL == "" {
		return false
	}
	if op.RollbackSQL != "" {
		if _, ok := seenRollback[op.RollbackSQL]; ok {
			op.RollbackSQL = ""
		} else {
			seenRollback[op.RollbackSQL] = struct{}{}
		}
	}
	return true
}

func firstSeen(val string, seen map[string]struct{}) bool {
	if val == "" {
		return false
	}
	if _, ok := seen[val]; ok {
		return false
	}
	seen[val] = struct{}{}
	return true
}

func (s *Script) filterByKind(kind OperationKind, fieldFn func(Operation) string) []string {
	out := make([]string, 0, len(s.Operations)/4+1)
	for i := range s.Operations {
		op := &s.Operations[i]
		if op.Kind != kind {
			continue
		}
		val := strings.TrimSpace(fieldFn(*op))
		if val == "" {
			continue
		}
		out = append(out, val)
	}
	return out
}
