package compiler

import (
	"errors"
	"fmt"
	"strings"

	"nzdialect/core"
	"nzdialect/typemap"
)

// Generator renders Netezza DDL from the core schema model. It is stateless.
type Generator struct{}

// NewGenerator initializes a new DDL generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// CreateTable renders CREATE TABLE for t. Every column whose type cannot be
// rendered is reported: the returned error joins one *core.UnsupportedTypeError
// per offending column, and no statement is returned in that case.
func (g *Generator) CreateTable(t *core.Table) (string, error) {
	if err := core.ValidateTable(t); err != nil {
		return "", err
	}

	var (
		defs []string
		errs []error
	)
	for _, c := range t.Columns {
		def, err := g.columnDefinition(t, c)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, "  "+def)
	}
	if len(errs) > 0 {
		return "", errors.Join(errs...)
	}

	if pk := primaryKey(t); len(pk) > 0 {
		defs = append(defs, "  PRIMARY KEY "+g.formatColumns(pk))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE %s (\n%s\n)", g.tableName(t), strings.Join(defs, ",\n"))
	if dist := g.DistributeClause(t.DistributeOn); dist != "" {
		sb.WriteString(" ")
		sb.WriteString(dist)
	}
	return sb.String(), nil
}

// AddColumn renders ALTER TABLE ... ADD COLUMN for c on table t.
func (g *Generator) AddColumn(t *core.Table, c *core.Column) (string, error) {
	def, err := g.columnDefinition(t, c)
	if err != nil {
		return "", err
	}
	return "ALTER TABLE " + g.tableName(t) + " ADD COLUMN " + def, nil
}

// DropTable renders DROP TABLE for t.
func (g *Generator) DropTable(t *core.Table) string {
	return "DROP TABLE " + g.tableName(t)
}

// DistributeClause renders the DISTRIBUTE ON clause, or an empty string when
// the database default placement applies.
func (g *Generator) DistributeClause(d core.DistributeOn) string {
	switch {
	case d.IsDefault():
		return ""
	case d.IsRandom():
		return "DISTRIBUTE ON RANDOM"
	default:
		return "DISTRIBUTE ON " + g.formatColumns(d.Columns())
	}
}

// ColumnType renders the vendor type of c. The portable type wins over the
// raw spelling so that reflected and hand-built columns render the same way.
func (g *Generator) ColumnType(c *core.Column) (string, error) {
	if !c.Type.IsZero() {
		return typemap.Render(c.Type)
	}
	if raw := strings.TrimSpace(c.RawType); raw != "" {
		typ, err := typemap.Parse(raw)
		if err != nil {
			return "", err
		}
		return typemap.Render(typ)
	}
	return "", &core.UnsupportedTypeError{Reason: "column has no type"}
}

func (g *Generator) columnDefinition(t *core.Table, c *core.Column) (string, error) {
	typ, err := g.ColumnType(c)
	if err != nil {
		var ute *core.UnsupportedTypeError
		if errors.As(err, &ute) {
			return "", ute.WithColumn(t.Name, c.Name)
		}
		return "", fmt.Errorf("column %s.%s: %w", t.Name, c.Name, err)
	}

	parts := []string{QuoteIdentifierIfNeeded(c.Name), typ}
	if c.Default != nil {
		if def := strings.TrimSpace(*c.Default); def != "" {
			parts = append(parts, "DEFAULT", def)
		}
	}
	if !c.Nullable || c.PrimaryKey {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " "), nil
}

func (g *Generator) tableName(t *core.Table) string {
	if t.Schema == "" {
		return QuoteIdentifierIfNeeded(t.Name)
	}
	return QuoteIdentifierIfNeeded(t.Schema) + "." + QuoteIdentifierIfNeeded(t.Name)
}

func (g *Generator) formatColumns(cols []string) string {
	var quoted []string
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		quoted = append(quoted, QuoteIdentifierIfNeeded(c))
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// primaryKey prefers the table level key and falls back to column flags.
func primaryKey(t *core.Table) []string {
	if len(t.PrimaryKey) > 0 {
		return t.PrimaryKey
	}
	var pk []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}
