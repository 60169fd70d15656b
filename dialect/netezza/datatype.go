package netezza

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm/schema"

	"nzdialect/compiler"
	"nzdialect/core"
	"nzdialect/typemap"
)

// portableType maps a GORM field to a core type. Custom data types, set
// with the type tag or GormDataType, go through the vendor type parser.
func (d Dialector) portableType(field *schema.Field) (core.Type, error) {
	switch field.DataType {
	case schema.Bool:
		return core.Type{Kind: core.KindBoolean}, nil
	case schema.Int:
		return core.Type{Kind: intKind(field.Size)}, nil
	case schema.Uint:
		// No unsigned types; widen so the full range fits.
		if field.Size == 0 || field.Size > 32 {
			return core.Type{Kind: core.KindNumeric, Precision: maxUint64Digits}, nil
		}
		return core.Type{Kind: intKind(field.Size * 2)}, nil
	case schema.Float:
		if field.Precision > 0 {
			return core.Type{Kind: core.KindNumeric, Precision: field.Precision, Scale: field.Scale}, nil
		}
		if field.Size > 0 && field.Size <= 32 {
			return core.Type{Kind: core.KindReal}, nil
		}
		return core.Type{Kind: core.KindDouble}, nil
	case schema.String:
		size := field.Size
		if size == 0 {
			size = d.stringSize()
		}
		return core.Type{Kind: core.KindVarchar, Length: size}, nil
	case schema.Time:
		return core.Type{Kind: core.KindTimestamp}, nil
	case schema.Bytes:
		size := field.Size
		if size == 0 {
			size = maxBinaryLength
		}
		return core.Type{Kind: core.KindVarBinary, Length: size}, nil
	}

	raw := strings.TrimSpace(string(field.DataType))
	if raw == "" {
		return core.Type{}, &core.UnsupportedTypeError{Reason: "field has no data type"}
	}
	if !strings.Contains(raw, "(") && field.Size > 0 && takesLength(raw) {
		raw = fmt.Sprintf("%s(%d)", raw, field.Size)
	}
	return typemap.Parse(raw)
}

const (
	maxBinaryLength = 64000
	// Digits of math.MaxUint64.
	maxUint64Digits = 20
)

func intKind(bits int) core.TypeKind {
	switch {
	case bits > 0 && bits <= 8:
		return core.KindByteInt
	case bits > 0 && bits <= 16:
		return core.KindSmallInt
	case bits > 0 && bits <= 32:
		return core.KindInteger
	default:
		return core.KindBigInt
	}
}

// takesLength reports whether the bare vendor type name accepts a length
// suffix taken from the size tag.
func takesLength(name string) bool {
	switch strings.ToLower(name) {
	case "st_geometry", "varchar", "char", "nchar", "nvarchar", "varbinary",
		"character varying", "national character varying", "binary varying":
		return true
	}
	return false
}

func (d Dialector) columnType(field *schema.Field) (string, error) {
	typ, err := d.portableType(field)
	if err != nil {
		return "", err
	}
	return typemap.Render(typ)
}

// column builds the core column descriptor for a GORM field.
func (d Dialector) column(table string, field *schema.Field) (*core.Column, error) {
	typ, err := d.portableType(field)
	if err != nil {
		var ute *core.UnsupportedTypeError
		if errors.As(err, &ute) {
			return nil, ute.WithColumn(table, field.DBName)
		}
		return nil, err
	}

	col := &core.Column{
		Name:       field.DBName,
		Type:       typ,
		RawType:    string(field.DataType),
		Nullable:   !field.NotNull && !field.PrimaryKey,
		PrimaryKey: field.PrimaryKey,
	}
	if def, ok := defaultExpr(field); ok {
		col.Default = &def
	}
	return col, nil
}

// defaultExpr renders the default tag of field as SQL.
func defaultExpr(field *schema.Field) (string, bool) {
	if !field.HasDefaultValue || field.AutoIncrement {
		return "", false
	}
	if field.DefaultValueInterface != nil {
		return compiler.Literal(field.DefaultValueInterface), true
	}
	def := strings.TrimSpace(field.DefaultValue)
	if def == "" || def == "(-)" {
		return "", false
	}
	return def, true
}
