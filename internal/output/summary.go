package output

import (
	"fmt"
	"strings"

	"nzdialect/core"
	"nzdialect/internal/script"
)

type summaryFormatter struct{}

// FormatDatabase formats a schema as a compact summary.
// Example output:
//
//	Tables:  2
//	Columns: 7
//
//	  admin.orders    5 columns  DISTRIBUTE ON (customer_id)
//	  audit_log       2 columns  DISTRIBUTE ON RANDOM
func (summaryFormatter) FormatDatabase(db *core.Database) (string, error) {
	if db == nil || len(db.Tables) == 0 {
		return "No tables.\n", nil
	}

	var sb strings.Builder
	if db.Name != "" {
		fmt.Fprintf(&sb, "Database %s\n", db.Name)
	} else {
		sb.WriteString("Database\n")
	}
	sb.WriteString("========\n\n")

	columns := 0
	width := 0
	for _, t := range db.Tables {
		columns += len(t.Columns)
		width = max(width, len(t.QualifiedName()))
	}
	fmt.Fprintf(&sb, "Tables:  %d\n", len(db.Tables))
	fmt.Fprintf(&sb, "Columns: %d\n\n", columns)

	for _, t := range db.Tables {
		fmt.Fprintf(&sb, "  %-*s  %d columns  %s\n", width, t.QualifiedName(), len(t.Columns), distributionLabel(t.DistributeOn))
	}
	return sb.String(), nil
}

// FormatScript formats a script as counts.
func (summaryFormatter) FormatScript(s *script.Script) (string, error) {
	if s == nil {
		return "No statements.\n", nil
	}

	var sb strings.Builder
	sb.WriteString("Script Summary\n")
	sb.WriteString("==============\n\n")
	fmt.Fprintf(&sb, "Statements: %d\n", len(s.SQLStatements()))
	fmt.Fprintf(&sb, "Rollback:   %d\n", len(s.RollbackStatements()))
	if notes := s.InfoNotes(); len(notes) > 0 {
		fmt.Fprintf(&sb, "Notes:      %d\n", len(notes))
	}
	if unresolved := s.UnresolvedNotes(); len(unresolved) > 0 {
		fmt.Fprintf(&sb, "Unresolved: %d\n", len(unresolved))
	}
	return sb.String(), nil
}

func distributionLabel(d core.DistributeOn) string {
	switch {
	case d.IsDefault():
		return "default distribution"
	case d.IsRandom():
		return "DISTRIBUTE ON RANDOM"
	default:
		return "DISTRIBUTE ON (" + strings.Join(d.Columns(), ", ") + ")"
	}
}
