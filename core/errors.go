package core

import (
	"fmt"
	"strings"
)

// UnsupportedTypeError is returned when a vendor type cannot be mapped to a
// portable type, or a portable type cannot be rendered as DDL. Reflection
// reports one error per offending column and keeps going.
type UnsupportedTypeError struct {
	Table  string
	Column string
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	var sb strings.Builder
	sb.WriteString("unsupported type")
	if e.Type != "" {
		fmt.Fprintf(&sb, " %q", e.Type)
	}
	switch {
	case e.Table != "" && e.Column != "":
		fmt.Fprintf(&sb, " for column %s.%s", e.Table, e.Column)
	case e.Column != "":
		fmt.Fprintf(&sb, " for column %s", e.Column)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	return sb.String()
}

// WithColumn returns a copy of e attributed to the given table and column.
// Fields that are already set are kept.
func (e *UnsupportedTypeError) WithColumn(table, column string) *UnsupportedTypeError {
	out := *e
	if out.Table == "" {
		out.Table = table
	}
	if out.Column == "" {
		out.Column = column
	}
	return &out
}

// ConfigError reports invalid or incomplete connection configuration. It is
// raised before any network call is attempted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid connection configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid connection configuration: %s: %s", e.Field, e.Reason)
}
