package compiler

import (
	"fmt"
	"strings"

	"nzdialect/core"
)

// DropColumn renders ALTER TABLE ... DROP COLUMN. Netezza wants an explicit
// RESTRICT or CASCADE; RESTRICT fails when a view depends on the column.
func (g *Generator) DropColumn(t *core.Table, column string) string {
	return "ALTER TABLE " + g.tableName(t) + " DROP COLUMN " + QuoteIdentifierIfNeeded(column) + " RESTRICT"
}

// ModifyColumn renders ALTER TABLE ... MODIFY COLUMN for c. Netezza can only
// change the length of a VARCHAR or NVARCHAR column this way, and only to
// make it longer, so any other change of from into c is an error.
func (g *Generator) ModifyColumn(t *core.Table, from, c *core.Column) (string, error) {
	if !CanWiden(from.Type, c.Type) {
		return "", fmt.Errorf("column %s.%s: cannot change %s to %s in place",
			t.Name, c.Name, describeType(from), describeType(c))
	}
	typ, err := g.ColumnType(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN (%s %s)", g.tableName(t), QuoteIdentifierIfNeeded(c.Name), typ), nil
}

// CanWiden reports whether from can become to with MODIFY COLUMN.
func CanWiden(from, to core.Type) bool {
	if from.Kind != to.Kind {
		return false
	}
	switch from.Kind {
	case core.KindVarchar, core.KindNVarchar:
		return to.Length > from.Length
	default:
		return false
	}
}

// AlterDefault renders ALTER TABLE ... ALTER COLUMN that sets the default of
// c, or drops it when c has none.
func (g *Generator) AlterDefault(t *core.Table, c *core.Column) string {
	prefix := "ALTER TABLE " + g.tableName(t) + " ALTER COLUMN " + QuoteIdentifierIfNeeded(c.Name)
	if c.Default != nil {
		if def := strings.TrimSpace(*c.Default); def != "" {
			return prefix + " SET DEFAULT " + def
		}
	}
	return prefix + " DROP DEFAULT"
}

func describeType(c *core.Column) string {
	if !c.Type.IsZero() {
		return c.Type.String()
	}
	return c.RawType
}
