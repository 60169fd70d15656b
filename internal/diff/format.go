package diff

import (
	"fmt"
	"strings"
)

// String returns a readable list of all differences.
func (d *SchemaDiff) String() string {
	if d.IsEmpty() {
		return "No differences detected."
	}

	var sb strings.Builder
	sb.WriteString("Schema differences:\n")
	writeList(&sb, "\nWarnings:\n", "  ", d.Warnings)

	if len(d.AddedTables) > 0 {
		sb.WriteString("\nAdded tables:\n")
		for _, t := range d.AddedTables {
			fmt.Fprintf(&sb, "  - %s\n", t.QualifiedName())
		}
	}
	if len(d.RemovedTables) > 0 {
		sb.WriteString("\nRemoved tables:\n")
		for _, t := range d.RemovedTables {
			fmt.Fprintf(&sb, "  - %s\n", t.QualifiedName())
		}
	}
	if len(d.ModifiedTables) > 0 {
		sb.WriteString("\nModified tables:\n")
		for _, td := range d.ModifiedTables {
			writeTableDiff(&sb, td)
		}
	}
	return sb.String()
}

func writeTableDiff(sb *strings.Builder, td *TableDiff) {
	fmt.Fprintf(sb, "\n  - %s\n", td.Name)
	writeList(sb, "    Warnings:\n", "      ", td.Warnings)

	if len(td.AddedColumns) > 0 {
		sb.WriteString("    Added columns:\n")
		for _, c := range td.AddedColumns {
			fmt.Fprintf(sb, "      - %s %s\n", c.Name, typeString(c))
		}
	}
	if len(td.RemovedColumns) > 0 {
		sb.WriteString("    Removed columns:\n")
		for _, c := range td.RemovedColumns {
			fmt.Fprintf(sb, "      - %s\n", c.Name)
		}
	}
	if len(td.ModifiedColumns) > 0 {
		sb.WriteString("    Modified columns:\n")
		for _, cc := range td.ModifiedColumns {
			fmt.Fprintf(sb, "      - %s\n", cc.Name)
			for _, ch := range cc.Changes {
				fmt.Fprintf(sb, "        %s: %q -> %q\n", ch.Field, ch.Old, ch.New)
			}
		}
	}
	for _, ch := range []*FieldChange{td.Distribution, td.PrimaryKey} {
		if ch != nil {
			fmt.Fprintf(sb, "    %s: %s -> %s\n", ch.Field, ch.Old, ch.New)
		}
	}
}

func writeList(sb *strings.Builder, title, indent string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title)
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			fmt.Fprintf(sb, "%s- %s\n", indent, item)
		}
	}
}
