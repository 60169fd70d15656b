// Package core contains the schema model shared by every part of nzdialect.
// Reflection produces it, the DDL generator consumes it, and the GORM
// integration translates model metadata into it. Values are built once and
// then treated as read-only.
package core

import (
	"fmt"
	"strings"
)

// MaxIdentifierLength is the longest identifier Netezza accepts.
const MaxIdentifierLength = 128

// MaxDistributionColumns is the largest number of columns a distribution key may name.
const MaxDistributionColumns = 4

// Random is the distribution keyword for round-robin row placement.
const Random = "RANDOM"

// TypeKind is the portable identifier of a column type.
type TypeKind string

const (
	KindBoolean   TypeKind = "boolean"
	KindByteInt   TypeKind = "byteint"
	KindSmallInt  TypeKind = "smallint"
	KindInteger   TypeKind = "integer"
	KindBigInt    TypeKind = "bigint"
	KindNumeric   TypeKind = "numeric"
	KindReal      TypeKind = "real"
	KindDouble    TypeKind = "double"
	KindChar      TypeKind = "char"
	KindVarchar   TypeKind = "varchar"
	KindNChar     TypeKind = "nchar"
	KindNVarchar  TypeKind = "nvarchar"
	KindText      TypeKind = "text"
	KindDate      TypeKind = "date"
	KindTime      TypeKind = "time"
	KindTimeTZ    TypeKind = "timetz"
	KindTimestamp TypeKind = "timestamp"
	KindInterval  TypeKind = "interval"
	KindVarBinary TypeKind = "varbinary"
	KindGeometry  TypeKind = "st_geometry"

	// System catalog only.
	KindOID     TypeKind = "oid"
	KindName    TypeKind = "name"
	KindAbsTime TypeKind = "abstime"
)

// Type is a portable column type. Length carries the character length for
// string kinds, the byte length for VARBINARY and the coordinate precision
// for ST_GEOMETRY. Precision and Scale are only used by NUMERIC.
type Type struct {
	Kind      TypeKind `json:"kind" toml:"kind"`
	Length    int      `json:"length,omitempty" toml:"length,omitempty"`
	Precision int      `json:"precision,omitempty" toml:"precision,omitempty"`
	Scale     int      `json:"scale,omitempty" toml:"scale,omitempty"`
}

// IsZero reports whether the type was never set.
func (t Type) IsZero() bool {
	return t.Kind == ""
}

func (t Type) String() string {
	switch {
	case t.Kind == KindNumeric && t.Precision > 0:
		return fmt.Sprintf("%s(%d,%d)", t.Kind, t.Precision, t.Scale)
	case t.Length > 0:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Length)
	default:
		return string(t.Kind)
	}
}

// Database is a set of tables living in one Netezza catalog.
type Database struct {
	Name   string   `json:"name"`
	Tables []*Table `json:"tables"`
}

// FindTable returns the table with the given name, compared case-insensitively.
func (db *Database) FindTable(name string) *Table {
	for _, t := range db.Tables {
		if strings.EqualFold(t.Name, name) {
			return t
		}
	}
	return nil
}

// Table represents a table in the schema.
type Table struct {
	Schema       string       `json:"schema,omitempty"`
	Name         string       `json:"name"`
	Columns      []*Column    `json:"columns"`
	PrimaryKey   []string     `json:"primaryKey,omitempty"`
	DistributeOn DistributeOn `json:"distributeOn,omitempty"`
}

// FindColumn returns the column with the given name, compared case-insensitively.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// QualifiedName returns schema.name, or just name when no schema is set.
func (t *Table) QualifiedName() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(%s, %d columns)", t.QualifiedName(), len(t.Columns))
}

// Column is a column descriptor. It is produced by reflection or by the ORM
// model translation and is not modified afterwards.
type Column struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
	// RawType is the type text as the catalog or schema file spelled it.
	RawType  string `json:"rawType,omitempty"`
	Nullable bool   `json:"nullable"`
	// Default is a SQL expression, rendered verbatim after DEFAULT.
	Default    *string `json:"default,omitempty"`
	PrimaryKey bool    `json:"primaryKey,omitempty"`
	// Distribution is true when the column is part of the distribution key.
	Distribution bool `json:"distribution,omitempty"`
}

// DistributeOn is the distribution key of a table. A nil value leaves
// placement to the database default, a single RANDOM entry requests random
// distribution, and anything else is a list of hash columns.
type DistributeOn []string

// DistributeRandom returns a random distribution policy.
func DistributeRandom() DistributeOn {
	return DistributeOn{Random}
}

// IsDefault reports whether no distribution was requested.
func (d DistributeOn) IsDefault() bool {
	return len(d) == 0
}

// IsRandom reports whether the policy is random distribution.
func (d DistributeOn) IsRandom() bool {
	return len(d) == 1 && strings.EqualFold(strings.TrimSpace(d[0]), Random)
}

// Columns returns the hash columns, or nil for default and random policies.
func (d DistributeOn) Columns() []string {
	if d.IsDefault() || d.IsRandom() {
		return nil
	}
	return d
}
