package schemafile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nzdialect/core"
	"nzdialect/typemap"
)

func convertColumn(table string, tc *tomlColumn) (*core.Column, error) {
	if strings.TrimSpace(tc.Name) == "" {
		return nil, errors.New("column name is empty")
	}

	col := &core.Column{
		Name:       tc.Name,
		Nullable:   tc.Nullable,
		PrimaryKey: tc.PrimaryKey,
		RawType:    strings.TrimSpace(tc.RawType),
	}
	if err := resolveColumnType(col, tc); err != nil {
		var ute *core.UnsupportedTypeError
		if errors.As(err, &ute) {
			return nil, ute.WithColumn(table, tc.Name)
		}
		return nil, fmt.Errorf("column %q: %w", tc.Name, err)
	}

	if tc.Default != nil {
		s := normalizeDefault(tc.Default)
		col.Default = &s
	}
	return col, nil
}

// resolveColumnType populates col.Type from the portable type, or from
// raw_type when no portable type is given.
func resolveColumnType(col *core.Column, tc *tomlColumn) error {
	raw := strings.TrimSpace(tc.Type)
	if raw == "" {
		raw = col.RawType
	}
	if raw == "" {
		return errors.New("type is empty")
	}

	t, err := typemap.Parse(raw)
	if err != nil {
		return err
	}
	col.Type = t
	return nil
}

func normalizeDefault(v any) string {
	switch val := v.(type) {
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
