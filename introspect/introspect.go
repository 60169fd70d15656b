// Package introspect reads table structure from the Netezza system catalog
// views and returns it as core model values.
//
// Names are passed in the ORM spelling (lower case for case-insensitive
// identifiers) and converted to the catalog spelling before querying.
// Driver errors are wrapped but never reinterpreted.
package introspect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nzdialect/compiler"
	"nzdialect/core"
	"nzdialect/typemap"
)

// ErrTableNotFound is returned by Table and Database when the catalog has
// no columns for a table.
var ErrTableNotFound = errors.New("table not found")

// Querier runs a catalog query. *sql.DB, *sql.Tx, *sql.Conn and GORM's
// ConnPool all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Reflector runs catalog queries through a Querier.
type Reflector struct {
	q      Querier
	logger *slog.Logger
}

// New creates a Reflector. If logger is nil, a discard logger is used.
func New(q Querier, logger *slog.Logger) *Reflector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reflector{q: q, logger: logger}
}

// CurrentCatalog returns the name of the connected database.
func (r *Reflector) CurrentCatalog(ctx context.Context) (string, error) {
	rows, err := r.q.QueryContext(ctx, currentCatalogQuery)
	if err != nil {
		return "", fmt.Errorf("query current catalog: %w", err)
	}
	defer rows.Close()

	var name string
	if rows.Next() {
		if err := rows.Scan(&name); err != nil {
			return "", fmt.Errorf("scan current catalog: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read current catalog: %w", err)
	}
	return compiler.NormalizeName(name), nil
}

// HasTable reports whether a table or view named table exists in the
// current database. Objects with the same name in other databases on the
// same host are ignored.
func (r *Reflector) HasTable(ctx context.Context, table string) (bool, error) {
	rows, err := r.q.QueryContext(ctx, hasTableQuery, compiler.DenormalizeName(table))
	if err != nil {
		return false, fmt.Errorf("query object data for %s: %w", table, err)
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return false, fmt.Errorf("scan object data for %s: %w", table, err)
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("read object data for %s: %w", table, err)
	}
	return count > 0, nil
}

// TableNames lists user tables, skipping system relations.
func (r *Reflector) TableNames(ctx context.Context, schema string) ([]string, error) {
	return r.names(ctx, "tables", tableNamesQuery, schema, systemTablePrefix)
}

// ViewNames lists user views, skipping system views.
func (r *Reflector) ViewNames(ctx context.Context, schema string) ([]string, error) {
	return r.names(ctx, "views", viewNamesQuery, schema, systemViewPrefix)
}

func (r *Reflector) names(ctx context.Context, what, query, schema, systemPrefix string) ([]string, error) {
	var args []any
	if schema != "" {
		query += " AND schema = ?"
		args = append(args, compiler.DenormalizeName(schema))
	}
	query += " ORDER BY 1"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		if strings.HasPrefix(strings.ToUpper(name), systemPrefix) {
			continue
		}
		names = append(names, compiler.NormalizeName(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", what, err)
	}
	return names, nil
}

// Columns returns one descriptor per catalog column of table, in attnum
// order. Columns whose type cannot be mapped are left out and reported as
// *core.UnsupportedTypeError values joined into the returned error; the
// remaining descriptors are still returned. Callers that only care about
// driver failures can test the error with errors.As.
func (r *Reflector) Columns(ctx context.Context, schema, table string) ([]*core.Column, error) {
	pk, err := r.primaryKey(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	inPK := make(map[string]bool, len(pk))
	for _, name := range pk {
		inPK[name] = true
	}

	query, args := withSchema(columnsQuery, "a.schema", schema, compiler.DenormalizeName(table))
	rows, err := r.q.QueryContext(ctx, query+" ORDER BY a.attnum", args...)
	if err != nil {
		return nil, fmt.Errorf("query columns of %s: %w", table, err)
	}
	defer rows.Close()

	var (
		cols        []*core.Column
		unsupported []error
	)
	for rows.Next() {
		var (
			name       string
			typeID     int
			notNull    sql.NullBool
			length     sql.NullInt64
			formatType sql.NullString
			defaultVal sql.NullString
		)
		if err := rows.Scan(&name, &typeID, &notNull, &length, &formatType, &defaultVal); err != nil {
			return nil, fmt.Errorf("scan columns of %s: %w", table, err)
		}

		colName := compiler.NormalizeName(strings.TrimSpace(name))
		typ, err := typemap.FromCatalog(typeID, int(length.Int64), formatType.String)
		if err != nil {
			var ute *core.UnsupportedTypeError
			if !errors.As(err, &ute) {
				return nil, err
			}
			r.logger.Warn("skipping column with unsupported type",
				slog.String("table", table),
				slog.String("column", colName),
				slog.Int("type_id", typeID))
			unsupported = append(unsupported, ute.WithColumn(table, colName))
			continue
		}

		col := &core.Column{
			Name:       colName,
			Type:       typ,
			RawType:    formatType.String,
			Nullable:   !notNull.Bool,
			PrimaryKey: inPK[colName],
		}
		// The key constraint is authoritative when it disagrees with attnotnull.
		if col.PrimaryKey && col.Nullable {
			r.logger.Debug("primary key column reported nullable",
				slog.String("table", table), slog.String("column", colName))
			col.Nullable = false
		}
		if defaultVal.Valid && strings.TrimSpace(defaultVal.String) != "" {
			def := defaultVal.String
			col.Default = &def
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}

	r.logger.Debug("reflected columns",
		slog.String("table", table),
		slog.Int("columns", len(cols)),
		slog.Int("unsupported", len(unsupported)))
	return cols, errors.Join(unsupported...)
}

// DistributeOn returns the distribution key of table. A table without
// distribution columns is randomly distributed.
func (r *Reflector) DistributeOn(ctx context.Context, schema, table string) (core.DistributeOn, error) {
	query, args := withSchema(distributionQuery, "schema", schema, compiler.DenormalizeName(table))
	rows, err := r.q.QueryContext(ctx, query+" ORDER BY distseqno", args...)
	if err != nil {
		return nil, fmt.Errorf("query distribution of %s: %w", table, err)
	}
	defer rows.Close()

	var dist core.DistributeOn
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan distribution of %s: %w", table, err)
		}
		dist = append(dist, compiler.NormalizeName(strings.TrimSpace(name)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read distribution of %s: %w", table, err)
	}
	if len(dist) == 0 {
		return core.DistributeRandom(), nil
	}
	return dist, nil
}

// Table reflects a whole table: columns, primary key and distribution key.
// Like Columns, it returns the table together with joined unsupported type
// errors when some columns could not be mapped.
func (r *Reflector) Table(ctx context.Context, schema, table string) (*core.Table, error) {
	cols, colErr := r.Columns(ctx, schema, table)
	var ute *core.UnsupportedTypeError
	if colErr != nil && !errors.As(colErr, &ute) {
		return nil, colErr
	}
	// Every Netezza table has at least one column.
	if len(cols) == 0 && colErr == nil {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, (&core.Table{Schema: schema, Name: table}).QualifiedName())
	}

	dist, err := r.DistributeOn(ctx, schema, table)
	if err != nil {
		return nil, err
	}

	t := &core.Table{
		Schema:       schema,
		Name:         table,
		Columns:      cols,
		DistributeOn: dist,
	}
	distCols := make(map[string]bool, len(dist))
	for _, name := range dist.Columns() {
		distCols[name] = true
	}
	for _, c := range cols {
		if c.PrimaryKey {
			t.PrimaryKey = append(t.PrimaryKey, c.Name)
		}
		c.Distribution = distCols[c.Name]
	}
	return t, colErr
}

// primaryKey returns the primary key columns of table in key order.
func (r *Reflector) primaryKey(ctx context.Context, schema, table string) ([]string, error) {
	query, args := withSchema(primaryKeyQuery, "schema", schema, compiler.DenormalizeName(table))
	rows, err := r.q.QueryContext(ctx, query+" ORDER BY conseq", args...)
	if err != nil {
		return nil, fmt.Errorf("query key data of %s: %w", table, err)
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan key data of %s: %w", table, err)
		}
		pk = append(pk, compiler.NormalizeName(strings.TrimSpace(name)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read key data of %s: %w", table, err)
	}
	return pk, nil
}

func withSchema(query, column, schema string, args ...any) (string, []any) {
	if schema == "" {
		return query, args
	}
	return query + " AND " + column + " = ?", append(args, compiler.DenormalizeName(schema))
}

// Database reflects the named tables of the current catalog, or every user
// table of schema when tables is empty. Like Table, it returns the schema
// together with the joined unsupported type errors of all tables.
func (r *Reflector) Database(ctx context.Context, schema string, tables ...string) (*core.Database, error) {
	name, err := r.CurrentCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		if tables, err = r.TableNames(ctx, schema); err != nil {
			return nil, err
		}
	}

	db := &core.Database{Name: name, Tables: make([]*core.Table, 0, len(tables))}
	var unsupported []error
	for _, table := range tables {
		t, err := r.Table(ctx, schema, table)
		var ute *core.UnsupportedTypeError
		if err != nil && !errors.As(err, &ute) {
			return nil, err
		}
		if err != nil {
			unsupported = append(unsupported, err)
		}
		db.Tables = append(db.Tables, t)
	}
	r.logger.Debug("reflected database", slog.String("database", name), slog.Int("tables", len(db.Tables)))
	return db, errors.Join(unsupported...)
}
