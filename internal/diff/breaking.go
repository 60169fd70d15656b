package diff

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"nzdialect/core"
)

// BreakingChange is a difference that can lose data or break readers of a
// table.
type BreakingChange struct {
	Severity    ChangeSeverity `json:"severity"`
	Description string         `json:"description"`
	Table       string         `json:"table"`
	Object      string         `json:"object"`
	ObjectType  string         `json:"objectType"`
}

type ChangeSeverity int

const (
	SeverityInfo ChangeSeverity = iota
	SeverityWarning
	SeverityBreaking
	SeverityCritical
)

func (s ChangeSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityBreaking:
		return "BREAKING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// BreakingChanges classifies every change of d, most severe first. Changes
// of equal severity keep diff order.
func (d *SchemaDiff) BreakingChanges() []BreakingChange {
	var out []BreakingChange
	for _, t := range d.RemovedTables {
		out = append(out, BreakingChange{
			Severity:    SeverityCritical,
			Description: "table will be dropped; all data will be lost",
			Table:       t.QualifiedName(),
			Object:      t.Name,
			ObjectType:  "TABLE",
		})
	}
	for _, td := range d.ModifiedTables {
		out = append(out, td.breakingChanges()...)
	}
	slices.SortStableFunc(out, func(a, b BreakingChange) int { return cmp.Compare(b.Severity, a.Severity) })
	return out
}

func (td *TableDiff) breakingChanges() []BreakingChange {
	var out []BreakingChange
	add := func(sev ChangeSeverity, object, objectType, desc string) {
		out = append(out, BreakingChange{Severity: sev, Description: desc, Table: td.Name, Object: object, ObjectType: objectType})
	}

	for _, c := range td.RemovedColumns {
		add(SeverityCritical, c.Name, "COLUMN", "column will be dropped; its data will be lost")
	}
	for _, c := range td.AddedColumns {
		if !c.Nullable && !c.PrimaryKey && c.Default == nil {
			add(SeverityBreaking, c.Name, "COLUMN", "NOT NULL column without a default; fails on a table with rows")
		}
	}
	for _, cc := range td.ModifiedColumns {
		for _, ch := range cc.Changes {
			if sev, desc := columnChangeSeverity(cc, ch); desc != "" {
				add(sev, cc.Name, "COLUMN", desc)
			}
		}
	}
	if td.Distribution != nil {
		add(SeverityWarning, td.Name, "TABLE",
			fmt.Sprintf("distribution changes from %s to %s; the table has to be rebuilt", td.Distribution.Old, td.Distribution.New))
	}
	if td.PrimaryKey != nil {
		add(SeverityWarning, td.Name, "CONSTRAINT",
			fmt.Sprintf("primary key changes from %s to %s", td.PrimaryKey.Old, td.PrimaryKey.New))
	}
	return out
}

func columnChangeSeverity(cc *ColumnChange, ch *FieldChange) (ChangeSeverity, string) {
	switch ch.Field {
	case "type":
		if isWidening(cc.Old.Type, cc.New.Type) {
			return SeverityInfo, fmt.Sprintf("type widens from %s to %s", ch.Old, ch.New)
		}
		return SeverityBreaking, fmt.Sprintf("type changes from %s to %s; values may be truncated or fail to convert", ch.Old, ch.New)
	case "nullable":
		if ch.New == "false" {
			return SeverityBreaking, "column becomes NOT NULL; existing NULL values violate it"
		}
		return SeverityInfo, "column becomes nullable"
	case "default":
		return SeverityInfo, fmt.Sprintf("default changes from %s to %s", orNone(ch.Old), orNone(ch.New))
	}
	return SeverityInfo, ""
}

// isWidening reports whether every value of from fits into to.
func isWidening(from, to core.Type) bool {
	switch {
	case from.Kind == to.Kind:
		switch from.Kind {
		case core.KindNumeric:
			return to.Precision-to.Scale >= from.Precision-from.Scale && to.Scale >= from.Scale
		default:
			return to.Length >= from.Length
		}
	case intRank(from.Kind) > 0 && intRank(to.Kind) > 0:
		return intRank(to.Kind) > intRank(from.Kind)
	case from.Kind == core.KindVarchar && to.Kind == core.KindNVarchar:
		return to.Length >= from.Length
	}
	return false
}

func intRank(k core.TypeKind) int {
	return slices.Index([]core.TypeKind{core.KindByteInt, core.KindSmallInt, core.KindInteger, core.KindBigInt}, k) + 1
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
