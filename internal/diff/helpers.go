package diff

import (
	"fmt"
	"regexp"
	"strings"

	"nzdialect/core"
	"nzdialect/typemap"
)

// castSuffixRe matches the cast the catalog appends to stored defaults, as
// in 'new'::"VARCHAR" or 0::NUMERIC(12,2).
var castSuffixRe = regexp.MustCompile(`::"?[A-Za-z_][A-Za-z0-9_ ]*"?(\(\s*\d+(\s*,\s*\d+)?\s*\))?$`)

type fieldChangeCollector struct {
	Changes []*FieldChange
}

func (c *fieldChangeCollector) Add(field, oldV, newV string) {
	if oldV == newV {
		return
	}
	c.Changes = append(c.Changes, &FieldChange{Field: field, Old: oldV, New: newV})
}

// typeString renders the column type the way CREATE TABLE would, so that a
// reflected CHARACTER VARYING(20) equals a declared varchar(20).
func typeString(c *core.Column) string {
	if !c.Type.IsZero() {
		if s, err := typemap.Render(c.Type); err == nil {
			return s
		}
		return strings.ToUpper(c.Type.String())
	}
	return strings.ToUpper(strings.TrimSpace(c.RawType))
}

func nullable(c *core.Column) bool {
	return c.Nullable && !c.PrimaryKey
}

func normalizeDefault(def *string) string {
	if def == nil {
		return ""
	}
	s := strings.TrimSpace(*def)
	for {
		trimmed := strings.TrimSpace(castSuffixRe.ReplaceAllString(s, ""))
		if trimmed == s {
			break
		}
		s = trimmed
	}
	if strings.HasPrefix(s, "'") {
		return s
	}
	return strings.ToUpper(s)
}

func equalDistribution(a, b core.DistributeOn) bool {
	switch {
	case a.IsDefault() || b.IsDefault():
		// The catalog reports the placement the database picked, so a
		// schema without DISTRIBUTE ON matches whatever is there.
		return true
	case a.IsRandom() || b.IsRandom():
		return a.IsRandom() == b.IsRandom()
	default:
		return equalFoldSlices(a.Columns(), b.Columns())
	}
}

func distributionString(d core.DistributeOn) string {
	switch {
	case d.IsDefault():
		return "default"
	case d.IsRandom():
		return core.Random
	default:
		return formatNameList(d.Columns())
	}
}

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

// mapColumnsByName creates a lookup map of columns keyed by lowercase name.
// Returns the map and any case-insensitive name collisions found.
func mapColumnsByName(columns []*core.Column) (map[string]*core.Column, []string) {
	m := make(map[string]*core.Column, len(columns))
	original := make(map[string]string, len(columns))
	var collisions []string

	for _, c := range columns {
		key := strings.ToLower(c.Name)
		if prev, ok := original[key]; ok {
			if prev != c.Name {
				collisions = append(collisions, fmt.Sprintf("case-insensitive name collision: %q vs %q", prev, c.Name))
			}
			continue
		}
		original[key] = c.Name
		m[key] = c
	}
	return m, collisions
}

func collisions(side string, tables []*core.Table) []string {
	seen := make(map[string]string, len(tables))
	var out []string
	for _, t := range tables {
		key := strings.ToLower(t.QualifiedName())
		if prev, ok := seen[key]; ok {
			out = append(out, fmt.Sprintf("%s: case-insensitive name collision: %q vs %q", side, prev, t.QualifiedName()))
			continue
		}
		seen[key] = t.QualifiedName()
	}
	return out
}

func equalFoldSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func formatNameList(items []string) string {
	return "(" + strings.Join(items, ", ") + ")"
}
