// Package compiler holds the Netezza specific pieces of SQL generation:
// identifier and literal quoting, pagination and DDL rendering. Everything
// here is a pure string transform, so it is shared by the GORM dialector,
// the reflection adapter and the command line tool.
package compiler

import (
	"regexp"
	"strings"
)

// legalIdentRe matches identifiers that can be written without quotes once
// they are known to be lower case.
var legalIdentRe = regexp.MustCompile(`^[a-z_][a-z0-9_$]*$`)

// QuoteIdentifier always quotes name, doubling any embedded double quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// RequiresQuotes reports whether name must be quoted to keep its meaning.
// Netezza folds unquoted identifiers to upper case, so lower case names are
// case-insensitive and anything with upper case letters is case-sensitive.
func RequiresQuotes(name string) bool {
	if name == "" {
		return true
	}
	if strings.ToLower(name) != name {
		return true
	}
	if !legalIdentRe.MatchString(name) {
		return true
	}
	return IsReserved(name)
}

// QuoteIdentifierIfNeeded quotes name only when RequiresQuotes says so.
func QuoteIdentifierIfNeeded(name string) string {
	if RequiresQuotes(name) {
		return QuoteIdentifier(name)
	}
	return name
}

// QuoteQualified quotes each dot separated part of name. Parts that are
// already wrapped in double quotes are written unchanged.
func QuoteQualified(name string) string {
	parts := splitQualified(name)
	for i, p := range parts {
		if p == "*" || isQuoted(p) {
			continue
		}
		parts[i] = QuoteIdentifierIfNeeded(p)
	}
	return strings.Join(parts, ".")
}

// splitQualified splits on dots that are not inside double quotes.
func splitQualified(name string) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	for _, r := range name {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == '.' && !inQuote:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(parts, cur.String())
}

func isQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// NormalizeName converts a catalog spelling to the ORM spelling: a name
// stored in upper case that would not need quoting in lower case is
// case-insensitive and is returned in lower case.
func NormalizeName(name string) string {
	if name == "" {
		return name
	}
	lower := strings.ToLower(name)
	if strings.ToUpper(name) == name && !RequiresQuotes(lower) {
		return lower
	}
	return name
}

// DenormalizeName is the inverse of NormalizeName: a case-insensitive lower
// case name is returned in the upper case form the catalog stores.
func DenormalizeName(name string) string {
	if name == "" {
		return name
	}
	if strings.ToLower(name) == name && !RequiresQuotes(name) {
		return strings.ToUpper(name)
	}
	return name
}

// QuoteString renders s as a string literal. Netezza does not treat the
// backslash as an escape character, so only single quotes are doubled.
func QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for _, r := range s {
		if r == '\'' {
			b.WriteString("''")
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
