// Package typemap converts between Netezza column types and the portable
// core.Type model. The mapping is closed: every vendor type it does not know
// is rejected with a *core.UnsupportedTypeError instead of being coerced.
package typemap

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"nzdialect/core"
)

const (
	maxCharLength     = 64000
	maxNationalLength = 16000
	maxNumericPrec    = 38

	// Precision and scale of a bare NUMERIC column.
	defaultNumericPrec  = 18
	defaultNumericScale = 0
)

// Entry describes one supported vendor type.
type Entry struct {
	// OID is the catalog type id reported in _v_relation_column.atttypid.
	OID  int
	Name string
	Kind core.TypeKind
	// HasLength is true when the catalog column length is part of the type.
	HasLength bool
}

// catalogTypes maps catalog type ids to portable kinds. The ids were read
// from _v_datatype.
var catalogTypes = map[int]Entry{
	16:   {OID: 16, Name: "BOOLEAN", Kind: core.KindBoolean},
	18:   {OID: 18, Name: "CHAR", Kind: core.KindChar},
	19:   {OID: 19, Name: "NAME", Kind: core.KindName},
	20:   {OID: 20, Name: "BIGINT", Kind: core.KindBigInt},
	21:   {OID: 21, Name: "SMALLINT", Kind: core.KindSmallInt},
	23:   {OID: 23, Name: "INTEGER", Kind: core.KindInteger},
	25:   {OID: 25, Name: "TEXT", Kind: core.KindText},
	26:   {OID: 26, Name: "OID", Kind: core.KindOID},
	700:  {OID: 700, Name: "REAL", Kind: core.KindReal},
	701:  {OID: 701, Name: "DOUBLE PRECISION", Kind: core.KindDouble},
	702:  {OID: 702, Name: "ABSTIME", Kind: core.KindAbsTime},
	1042: {OID: 1042, Name: "CHARACTER", Kind: core.KindChar, HasLength: true},
	1043: {OID: 1043, Name: "CHARACTER VARYING", Kind: core.KindVarchar, HasLength: true},
	1082: {OID: 1082, Name: "DATE", Kind: core.KindDate},
	1083: {OID: 1083, Name: "TIME", Kind: core.KindTime},
	1184: {OID: 1184, Name: "TIMESTAMP", Kind: core.KindTimestamp},
	1186: {OID: 1186, Name: "INTERVAL", Kind: core.KindInterval},
	1266: {OID: 1266, Name: "TIME WITH TIME ZONE", Kind: core.KindTimeTZ},
	1700: {OID: 1700, Name: "NUMERIC", Kind: core.KindNumeric},
	2500: {OID: 2500, Name: "BYTEINT", Kind: core.KindByteInt},
	2522: {OID: 2522, Name: "NATIONAL CHARACTER", Kind: core.KindNChar, HasLength: true},
	2530: {OID: 2530, Name: "NATIONAL CHARACTER VARYING", Kind: core.KindNVarchar, HasLength: true},
	2552: {OID: 2552, Name: "ST_GEOMETRY", Kind: core.KindGeometry, HasLength: true},
	2568: {OID: 2568, Name: "VARBINARY", Kind: core.KindVarBinary, HasLength: true},
}

// typeNames maps lower-cased vendor spellings, including the long SQL
// standard forms used by format_type, to portable kinds.
var typeNames = map[string]core.TypeKind{
	"boolean": core.KindBoolean,
	"bool":    core.KindBoolean,

	"byteint":  core.KindByteInt,
	"int1":     core.KindByteInt,
	"smallint": core.KindSmallInt,
	"int2":     core.KindSmallInt,
	"integer":  core.KindInteger,
	"int":      core.KindInteger,
	"int4":     core.KindInteger,
	"bigint":   core.KindBigInt,
	"int8":     core.KindBigInt,

	"numeric": core.KindNumeric,
	"decimal": core.KindNumeric,
	"dec":     core.KindNumeric,

	"real":             core.KindReal,
	"float4":           core.KindReal,
	"double precision": core.KindDouble,
	"double":           core.KindDouble,
	"float8":           core.KindDouble,
	"float":            core.KindDouble,

	"char":                       core.KindChar,
	"character":                  core.KindChar,
	"varchar":                    core.KindVarchar,
	"character varying":          core.KindVarchar,
	"char varying":               core.KindVarchar,
	"nchar":                      core.KindNChar,
	"national character":         core.KindNChar,
	"national char":              core.KindNChar,
	"nvarchar":                   core.KindNVarchar,
	"national character varying": core.KindNVarchar,
	"national char varying":      core.KindNVarchar,
	"text":                       core.KindText,

	"date":                        core.KindDate,
	"time":                        core.KindTime,
	"time without time zone":      core.KindTime,
	"time with time zone":         core.KindTimeTZ,
	"timetz":                      core.KindTimeTZ,
	"timestamp":                   core.KindTimestamp,
	"timestamp without time zone": core.KindTimestamp,
	"interval":                    core.KindInterval,

	"varbinary":      core.KindVarBinary,
	"binary varying": core.KindVarBinary,
	"st_geometry":    core.KindGeometry,

	"oid":     core.KindOID,
	"name":    core.KindName,
	"abstime": core.KindAbsTime,
}

// typeSyntaxRe splits "name(a, b)" into the name and up to two parameters.
var typeSyntaxRe = regexp.MustCompile(`^([a-z_][a-z0-9_ ]*?)\s*(?:\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\))?$`)

var wsRe = regexp.MustCompile(`\s+`)

// FromCatalog maps a catalog type id to a portable type. length is the
// catalog column length (attcolleng) and formatType the type text reported
// by the catalog (format_type), which carries NUMERIC precision and scale.
func FromCatalog(typeID, length int, formatType string) (core.Type, error) {
	e, ok := catalogTypes[typeID]
	if !ok {
		return core.Type{}, &core.UnsupportedTypeError{
			Type:   typeLabel(typeID, formatType),
			Reason: "no mapping for catalog type id " + strconv.Itoa(typeID),
		}
	}

	t := core.Type{Kind: e.Kind}
	switch {
	case e.Kind == core.KindNumeric:
		parsed, err := Parse(formatType)
		if err != nil || parsed.Kind != core.KindNumeric {
			return core.Type{}, &core.UnsupportedTypeError{
				Type:   typeLabel(typeID, formatType),
				Reason: "cannot read numeric precision and scale",
			}
		}
		t = parsed
	case e.HasLength:
		t.Length = length
		// format_type reports characters where attcolleng may report bytes.
		if !strings.Contains(formatType, "(") {
			break
		}
		if parsed, err := Parse(formatType); err == nil && parsed.Kind == e.Kind {
			t.Length = parsed.Length
		}
	case e.Kind == core.KindChar:
		t.Length = 1
	}
	return t, nil
}

// Parse reads a vendor type string such as "ST_GEOMETRY(200)",
// "NUMERIC(18,4)" or "character varying(20)".
func Parse(raw string) (core.Type, error) {
	norm := wsRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), " ")
	m := typeSyntaxRe.FindStringSubmatch(norm)
	if m == nil {
		return core.Type{}, &core.UnsupportedTypeError{Type: raw, Reason: "malformed type"}
	}
	name := strings.TrimSpace(m[1])
	kind, ok := typeNames[name]
	if !ok {
		return core.Type{}, &core.UnsupportedTypeError{Type: raw, Reason: "unknown Netezza type"}
	}

	var params []int
	for _, p := range m[2:] {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return core.Type{}, &core.UnsupportedTypeError{Type: raw, Reason: "invalid type parameter"}
		}
		params = append(params, n)
	}

	t, err := withParams(kind, name, params)
	if err != nil {
		return core.Type{}, &core.UnsupportedTypeError{Type: raw, Reason: err.Error()}
	}
	if err := check(t); err != nil {
		return core.Type{}, &core.UnsupportedTypeError{Type: raw, Reason: err.Error()}
	}
	return t, nil
}

func withParams(kind core.TypeKind, name string, params []int) (core.Type, error) {
	t := core.Type{Kind: kind}
	switch kind {
	case core.KindNumeric:
		t.Precision, t.Scale = defaultNumericPrec, defaultNumericScale
		if len(params) > 0 {
			// An explicit zero would read back as the default precision.
			if params[0] < 1 {
				return t, fmt.Errorf("numeric precision %d out of range 1..%d", params[0], maxNumericPrec)
			}
			t.Precision, t.Scale = params[0], 0
		}
		if len(params) > 1 {
			t.Scale = params[1]
		}
	case core.KindDouble:
		// FLOAT(p) is single precision up to six digits.
		if name == "float" && len(params) == 1 {
			if params[0] <= 6 {
				t.Kind = core.KindReal
			}
			return t, nil
		}
		if len(params) > 0 {
			return t, fmt.Errorf("%s does not take parameters", name)
		}
	case core.KindChar, core.KindNChar:
		t.Length = 1
		if len(params) > 1 {
			return t, fmt.Errorf("%s takes a single length", name)
		}
		if len(params) == 1 {
			t.Length = params[0]
		}
	case core.KindVarchar, core.KindNVarchar, core.KindVarBinary, core.KindGeometry:
		if len(params) > 1 {
			return t, fmt.Errorf("%s takes a single length", name)
		}
		if len(params) == 1 {
			t.Length = params[0]
		}
	default:
		if len(params) > 0 {
			return t, fmt.Errorf("%s does not take parameters", name)
		}
	}
	return t, nil
}

// Render returns the DDL spelling of t. Zero lengths on types that need
// one and out of range parameters are rejected.
func Render(t core.Type) (string, error) {
	if err := check(t); err != nil {
		return "", &core.UnsupportedTypeError{Type: t.String(), Reason: err.Error()}
	}
	switch t.Kind {
	case core.KindBoolean:
		return "BOOLEAN", nil
	case core.KindByteInt:
		return "BYTEINT", nil
	case core.KindSmallInt:
		return "SMALLINT", nil
	case core.KindInteger:
		return "INTEGER", nil
	case core.KindBigInt:
		return "BIGINT", nil
	case core.KindNumeric:
		p, s := t.Precision, t.Scale
		if p == 0 {
			p, s = defaultNumericPrec, defaultNumericScale
		}
		return fmt.Sprintf("NUMERIC(%d,%d)", p, s), nil
	case core.KindReal:
		return "REAL", nil
	case core.KindDouble:
		return "DOUBLE PRECISION", nil
	case core.KindChar:
		return fmt.Sprintf("CHAR(%d)", t.Length), nil
	case core.KindVarchar:
		return fmt.Sprintf("VARCHAR(%d)", t.Length), nil
	case core.KindNChar:
		return fmt.Sprintf("NCHAR(%d)", t.Length), nil
	case core.KindNVarchar:
		return fmt.Sprintf("NVARCHAR(%d)", t.Length), nil
	case core.KindText:
		// No TEXT in Netezza DDL; the catalog type is the widest VARCHAR.
		return fmt.Sprintf("VARCHAR(%d)", maxCharLength), nil
	case core.KindDate:
		return "DATE", nil
	case core.KindTime:
		return "TIME", nil
	case core.KindTimeTZ:
		return "TIME WITH TIME ZONE", nil
	case core.KindTimestamp:
		return "TIMESTAMP", nil
	case core.KindInterval:
		return "INTERVAL", nil
	case core.KindVarBinary:
		return fmt.Sprintf("VARBINARY(%d)", t.Length), nil
	case core.KindGeometry:
		return fmt.Sprintf("ST_GEOMETRY(%d)", t.Length), nil
	case core.KindOID:
		return "OID", nil
	case core.KindName:
		return "NAME", nil
	case core.KindAbsTime:
		return "ABSTIME", nil
	default:
		return "", &core.UnsupportedTypeError{Type: string(t.Kind), Reason: "unknown portable type"}
	}
}

// check validates type parameters against Netezza limits.
func check(t core.Type) error {
	switch t.Kind {
	case core.KindChar, core.KindVarchar, core.KindVarBinary, core.KindGeometry:
		return checkLength(t, maxCharLength)
	case core.KindNChar, core.KindNVarchar:
		return checkLength(t, maxNationalLength)
	case core.KindNumeric:
		if t.Precision == 0 && t.Scale == 0 {
			return nil
		}
		if t.Precision < 1 || t.Precision > maxNumericPrec {
			return fmt.Errorf("numeric precision %d out of range 1..%d", t.Precision, maxNumericPrec)
		}
		if t.Scale < 0 || t.Scale > t.Precision {
			return fmt.Errorf("numeric scale %d out of range 0..%d", t.Scale, t.Precision)
		}
	}
	return nil
}

func checkLength(t core.Type, maxLen int) error {
	if t.Length < 1 {
		return fmt.Errorf("%s requires a length", t.Kind)
	}
	if t.Length > maxLen {
		return fmt.Errorf("%s length %d exceeds maximum %d", t.Kind, t.Length, maxLen)
	}
	return nil
}

// Supported returns the catalog types known to the mapper, ordered by OID.
func Supported() []Entry {
	out := make([]Entry, 0, len(catalogTypes))
	for _, e := range catalogTypes {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b Entry) int { return a.OID - b.OID })
	return out
}

// LookupOID returns the catalog entry for a type id.
func LookupOID(typeID int) (Entry, bool) {
	e, ok := catalogTypes[typeID]
	return e, ok
}

func typeLabel(typeID int, formatType string) string {
	if s := strings.TrimSpace(formatType); s != "" {
		return s
	}
	return "oid " + strconv.Itoa(typeID)
}
