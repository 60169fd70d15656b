package compiler

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05.999999"

// Literal renders v as a SQL literal. It is used for statement explanation
// and for inlining defaults, never for executing user input.
func Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return QuoteString(val)
	case []byte:
		return "X'" + strings.ToUpper(hex.EncodeToString(val)) + "'"
	case time.Time:
		if val.IsZero() {
			return "NULL"
		}
		return "'" + val.Format(timestampLayout) + "'"
	case *time.Time:
		if val == nil {
			return "NULL"
		}
		return Literal(*val)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case driver.Valuer:
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return "NULL"
		}
		inner, err := val.Value()
		if err != nil {
			return QuoteString(fmt.Sprint(v))
		}
		return Literal(inner)
	case fmt.Stringer:
		return QuoteString(val.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return "NULL"
		}
		return Literal(rv.Elem().Interface())
	case reflect.Bool:
		return Literal(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.String:
		return QuoteString(rv.String())
	default:
		return QuoteString(fmt.Sprint(v))
	}
}

// Interpolate replaces each ? bind marker in sql with the literal form of the
// matching entry in vars. Markers inside string literals, quoted identifiers
// and comments are left alone. Surplus markers are kept as they are.
func Interpolate(sql string, vars ...any) string {
	var b strings.Builder
	b.Grow(len(sql) + 8*len(vars))

	idx := 0
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case c == '\'' || c == '"':
			end := skipQuoted(sql, i, c)
			b.WriteString(sql[i:end])
			i = end - 1
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				end = len(sql) - i
			}
			b.WriteString(sql[i : i+end])
			i += end - 1
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			stop := len(sql)
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			b.WriteString(sql[i:stop])
			i = stop - 1
		case c == '?' && idx < len(vars):
			b.WriteString(Literal(vars[idx]))
			idx++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// skipQuoted returns the index just past the quoted region starting at
// start. A doubled quote character is an escaped quote.
func skipQuoted(s string, start int, q byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}
