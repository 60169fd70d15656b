package compiler

import "strings"

// reservedWords lists the Netezza SQL reserved words. Identifiers matching
// one of them must be quoted.
var reservedWords = toSet(
	"abort", "aggregate", "align", "all", "allocate", "analyse",
	"analyze", "and", "any", "as", "asc", "between", "binary", "bit", "both",
	"case", "cast", "char", "character", "check", "cluster", "coalesce",
	"collate", "collation", "column", "constraint", "copy", "cross",
	"current", "current_catalog", "current_date", "current_db",
	"current_schema", "current_sid", "current_time", "current_timestamp",
	"current_user", "current_userid", "current_useroid", "deallocate",
	"dec", "decimal", "decode", "default", "deferrable", "desc", "distinct",
	"distribute", "do", "else", "end", "except", "exclude", "exists",
	"explain", "express", "extend", "external", "extract", "false", "first",
	"float", "following", "for", "foreign", "from", "full", "function",
	"genstats", "global", "group", "having", "identifier_case", "ilike", "in",
	"index", "initially", "inner", "inout", "intersect", "interval", "into",
	"last", "leading", "left", "like", "limit", "load", "local", "lock",
	"minus", "move", "natural", "nchar", "new", "not", "notnull", "null",
	"nullif", "nulls", "numeric", "nvl", "nvl2", "off", "offset", "old", "on",
	"online", "only", "or", "order", "others", "out", "outer", "over",
	"overlaps", "partition", "position", "preceding", "precision",
	"preserve", "primary", "reset", "reuse", "right", "rows", "select",
	"session_user", "setof", "show", "some", "table", "then", "ties", "time",
	"timestamp", "to", "trailing", "transaction", "trigger", "trim", "true",
	"unbounded", "union", "unique", "user", "using", "vacuum", "varchar",
	"verbose", "version", "view", "when", "where", "with", "write",
)

// IsReserved reports whether name is a reserved word, ignoring case.
func IsReserved(name string) bool {
	return reservedWords[strings.ToLower(name)]
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
