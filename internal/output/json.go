package output

import (
	"encoding/json"

	"nzdialect/core"
	"nzdialect/internal/script"
)

type jsonFormatter struct{}

type databaseSummary struct {
	Tables  int `json:"tables"`
	Columns int `json:"columns"`
}

type databasePayload struct {
	Format   string          `json:"format"`
	Summary  databaseSummary `json:"summary"`
	Database *core.Database  `json:"database,omitempty"`
}

type scriptSummary struct {
	Unresolved         int `json:"unresolved"`
	Notes              int `json:"notes"`
	SQLStatements      int `json:"sqlStatements"`
	RollbackStatements int `json:"rollbackStatements"`
}

type scriptPayload struct {
	Format     string        `json:"format"`
	Summary    scriptSummary `json:"summary"`
	Unresolved []string      `json:"unresolved,omitempty"`
	Notes      []string      `json:"notes,omitempty"`
	SQL        []string      `json:"sql,omitempty"`
	Rollback   []string      `json:"rollback,omitempty"`
}

type Payload interface {
	databasePayload | scriptPayload
}

func (jsonFormatter) FormatDatabase(db *core.Database) (string, error) {
	payload := databasePayload{Format: string(FormatJSON), Database: db}
	if db != nil {
		payload.Summary.Tables = len(db.Tables)
		for _, t := range db.Tables {
			payload.Summary.Columns += len(t.Columns)
		}
	}
	return marshalJSON(payload)
}

func (jsonFormatter) FormatScript(s *script.Script) (string, error) {
	payload := scriptPayload{Format: string(FormatJSON)}
	if s != nil {
		unresolved := s.UnresolvedNotes()
		notes := s.InfoNotes()
		sql := normalizeStatements(s.SQLStatements())
		rollback := normalizeStatements(reverseStatements(s.RollbackStatements()))

		payload.Unresolved = unresolved
		payload.Notes = notes
		payload.SQL = sql
		payload.Rollback = rollback
		payload.Summary = scriptSummary{
			Unresolved:         len(unresolved),
			Notes:              len(notes),
			SQLStatements:      len(sql),
			RollbackStatements: len(rollback),
		}
	}
	return marshalJSON(payload)
}

func marshalJSON[T Payload](payload T) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
