package netezza

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/migrator"

	"nzdialect/compiler"
	"nzdialect/core"
	"nzdialect/introspect"
	"nzdialect/typemap"
)

// Migrator implements gorm.Migrator on top of the catalog reflector and the
// DDL generator. Netezza has no indexes, so index operations are no-ops.
type Migrator struct {
	migrator.Migrator
	dialector Dialector
}

func (m Migrator) reflector() *introspect.Reflector {
	return introspect.New(m.DB.Statement.ConnPool, m.dialector.logger())
}

func (m Migrator) ctx() context.Context {
	if ctx := m.DB.Statement.Context; ctx != nil {
		return ctx
	}
	return context.Background()
}

func (m Migrator) CurrentDatabase() string {
	name, err := m.reflector().CurrentCatalog(m.ctx())
	if err != nil {
		_ = m.DB.AddError(err)
	}
	return name
}

func (m Migrator) HasTable(value any) bool {
	var exists bool
	err := m.RunWithValue(value, func(stmt *gorm.Statement) error {
		_, table := splitTable(stmt.Table)
		ok, err := m.reflector().HasTable(m.ctx(), table)
		exists = ok
		return err
	})
	if err != nil {
		m.dialector.logger().Warn("table lookup failed", slog.Any("error", err))
	}
	return exists
}

func (m Migrator) GetTables() ([]string, error) {
	return m.reflector().TableNames(m.ctx(), "")
}

// ColumnTypes returns the reflected columns of value. Columns with types
// that have no mapping are left out and reported in the returned error.
func (m Migrator) ColumnTypes(value any) ([]gorm.ColumnType, error) {
	var out []gorm.ColumnType
	err := m.RunWithValue(value, func(stmt *gorm.Statement) error {
		schemaName, table := splitTable(stmt.Table)
		cols, err := m.reflector().Columns(m.ctx(), schemaName, table)
		for _, c := range cols {
			out = append(out, columnTypeOf(c))
		}
		return err
	})
	return out, err
}

func (m Migrator) HasColumn(value any, field string) bool {
	var found bool
	_ = m.RunWithValue(value, func(stmt *gorm.Statement) error {
		name := field
		if stmt.Schema != nil {
			if f := stmt.Schema.LookUpField(field); f != nil {
				name = f.DBName
			}
		}
		existing, err := m.existingColumns(stmt)
		found = existing[strings.ToLower(name)]
		return err
	})
	return found
}

// CreateTable creates a table per model, including the primary key and
// the distribution key chosen by DistributeOnKey or Distributor.
func (m Migrator) CreateTable(values ...any) error {
	gen := compiler.NewGenerator()
	for _, value := range m.ReorderModels(values, false) {
		err := m.RunWithValue(value, func(stmt *gorm.Statement) error {
			table, err := m.tableOf(stmt, value)
			if err != nil {
				return err
			}
			ddl, err := gen.CreateTable(table)
			if err != nil {
				return err
			}
			m.dialector.logger().Debug("creating table", slog.String("table", table.QualifiedName()))
			return m.DB.Exec(ddl).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// AutoMigrate creates missing tables and adds missing columns. Existing
// columns are never altered or dropped.
func (m Migrator) AutoMigrate(values ...any) error {
	for _, value := range m.ReorderModels(values, true) {
		if !m.HasTable(value) {
			if err := m.CreateTable(value); err != nil {
				return err
			}
			continue
		}

		err := m.RunWithValue(value, func(stmt *gorm.Statement) error {
			if stmt.Schema == nil {
				return errors.New("auto migrate needs a model, not a table name")
			}
			existing, err := m.existingColumns(stmt)
			if err != nil {
				return err
			}
			for _, dbName := range stmt.Schema.DBNames {
				field := stmt.Schema.FieldsByDBName[dbName]
				if field.IgnoreMigration || existing[strings.ToLower(dbName)] {
					continue
				}
				if err := m.AddColumn(value, dbName); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m Migrator) AddColumn(value any, name string) error {
	return m.RunWithValue(value, func(stmt *gorm.Statement) error {
		if stmt.Schema == nil {
			return fmt.Errorf("failed to look up field with name: %s", name)
		}
		field := stmt.Schema.LookUpField(name)
		if field == nil {
			return fmt.Errorf("failed to look up field with name: %s", name)
		}
		schemaName, table := splitTable(stmt.Table)
		col, err := m.dialector.column(table, field)
		if err != nil {
			return err
		}
		ddl, err := compiler.NewGenerator().AddColumn(&core.Table{Schema: schemaName, Name: table}, col)
		if err != nil {
			return err
		}
		return m.DB.Exec(ddl).Error
	})
}

func (m Migrator) DropTable(values ...any) error {
	gen := compiler.NewGenerator()
	values = m.ReorderModels(values, false)
	for i := len(values) - 1; i >= 0; i-- {
		err := m.RunWithValue(values[i], func(stmt *gorm.Statement) error {
			if !m.HasTable(stmt.Table) {
				return nil
			}
			schemaName, table := splitTable(stmt.Table)
			return m.DB.Exec(gen.DropTable(&core.Table{Schema: schemaName, Name: table})).Error
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (m Migrator) CreateIndex(any, string) error {
	return nil
}

func (m Migrator) DropIndex(any, string) error {
	return nil
}

func (m Migrator) HasIndex(any, string) bool {
	return false
}

func (m Migrator) RenameIndex(any, string, string) error {
	return nil
}

func (m Migrator) GetIndexes(any) ([]gorm.Index, error) {
	return nil, nil
}

// tableOf converts the parsed model of stmt to a core table. Every field
// with an unsupported type is reported.
func (m Migrator) tableOf(stmt *gorm.Statement, value any) (*core.Table, error) {
	if stmt.Schema == nil {
		return nil, errors.New("create table needs a model, not a table name")
	}
	schemaName, name := splitTable(stmt.Table)
	t := &core.Table{Schema: schemaName, Name: name}

	var errs []error
	for _, dbName := range stmt.Schema.DBNames {
		field := stmt.Schema.FieldsByDBName[dbName]
		if field.IgnoreMigration {
			continue
		}
		col, err := m.dialector.column(name, field)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.Columns = append(t.Columns, col)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	for _, f := range stmt.Schema.PrimaryFields {
		t.PrimaryKey = append(t.PrimaryKey, f.DBName)
	}
	t.DistributeOn = distributionFor(m.DB, value, stmt.Schema.ModelType)
	for _, c := range t.DistributeOn.Columns() {
		if col := t.FindColumn(c); col != nil {
			col.Distribution = true
		}
	}
	return t, nil
}

// existingColumns returns the lower cased names of every catalog column,
// including those whose type has no mapping.
func (m Migrator) existingColumns(stmt *gorm.Statement) (map[string]bool, error) {
	schemaName, table := splitTable(stmt.Table)
	cols, err := m.reflector().Columns(m.ctx(), schemaName, table)

	names := make(map[string]bool, len(cols))
	for _, c := range cols {
		names[strings.ToLower(c.Name)] = true
	}
	if err == nil {
		return names, nil
	}

	unsupported := unsupportedColumns(err)
	if len(unsupported) == 0 {
		return nil, err
	}
	for _, c := range unsupported {
		names[strings.ToLower(c)] = true
	}
	return names, nil
}

// unsupportedColumns lists the columns named by the unsupported type errors
// in err. It returns nil when err carries anything else.
func unsupportedColumns(err error) []string {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	var cols []string
	for _, e := range errs {
		var ute *core.UnsupportedTypeError
		if !errors.As(e, &ute) {
			return nil
		}
		cols = append(cols, ute.Column)
	}
	return cols
}

func columnTypeOf(c *core.Column) migrator.ColumnType {
	columnType, err := typemap.Render(c.Type)
	if err != nil {
		columnType = c.RawType
	}

	ct := migrator.ColumnType{
		NameValue:       sql.NullString{String: c.Name, Valid: true},
		DataTypeValue:   sql.NullString{String: string(c.Type.Kind), Valid: true},
		ColumnTypeValue: sql.NullString{String: columnType, Valid: true},
		PrimaryKeyValue: sql.NullBool{Bool: c.PrimaryKey, Valid: true},
		NullableValue:   sql.NullBool{Bool: c.Nullable, Valid: true},
	}
	if c.Type.Length > 0 {
		ct.LengthValue = sql.NullInt64{Int64: int64(c.Type.Length), Valid: true}
	}
	if c.Type.Kind == core.KindNumeric {
		ct.DecimalSizeValue = sql.NullInt64{Int64: int64(c.Type.Precision), Valid: true}
		ct.ScaleValue = sql.NullInt64{Int64: int64(c.Type.Scale), Valid: true}
	}
	if c.Default != nil {
		ct.DefaultValueValue = sql.NullString{String: *c.Default, Valid: true}
	}
	return ct
}

func splitTable(name string) (string, string) {
	if schemaName, table, ok := strings.Cut(name, "."); ok {
		return schemaName, table
	}
	return "", name
}
