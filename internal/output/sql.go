package output

import (
	"io"
	"strings"

	"nzdialect/core"
	"nzdialect/internal/script"
)

type sqlFormatter struct{}

// FormatDatabase renders the DDL of db. Columns with unsupported types are
// skipped and listed in the header.
func (f sqlFormatter) FormatDatabase(db *core.Database) (string, error) {
	if db == nil {
		return "", nil
	}
	s, err := script.Build(db, script.Options{SkipUnsupported: true})
	if err != nil {
		return "", err
	}
	return f.FormatScript(s)
}

// FormatScript formats a script in SQL format.
func (sqlFormatter) FormatScript(s *script.Script) (string, error) {
	if s == nil {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("-- nzdialect script\n")
	sb.WriteString("-- Review before running against a production appliance.\n")

	writeCommentSection(&sb, "UNRESOLVED (cannot generate safely)", s.UnresolvedNotes())
	writeCommentSection(&sb, "NOTES", s.InfoNotes())

	stmts := s.SQLStatements()
	rb := s.RollbackStatements()

	if len(stmts) == 0 {
		sb.WriteString("\n-- No SQL statements generated.\n")
		return sb.String(), nil
	}

	sb.WriteString("\n-- SQL\n")
	for _, stmt := range normalizeStatements(stmts) {
		sb.WriteString(stmt)
		sb.WriteString("\n")
	}

	if len(rb) > 0 {
		sb.WriteString("\n-- ROLLBACK SQL (run separately)\n")
		writeRollbackAsComments(&sb, rb)
	}

	return sb.String(), nil
}

// FormatRollbackSQL formats the rollback statements of s, last first.
func FormatRollbackSQL(s *script.Script) string {
	if s == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("-- nzdialect rollback\n")

	rb := s.RollbackStatements()
	if len(rb) == 0 {
		sb.WriteString("\n-- No rollback statements generated.\n")
		return sb.String()
	}

	sb.WriteString("\n-- SQL\n")
	for _, stmt := range normalizeStatements(reverseStatements(rb)) {
		sb.WriteString(stmt)
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteScript writes s to w in the given format.
func WriteScript(w io.Writer, format string, s *script.Script) error {
	f, err := NewFormatter(format)
	if err != nil {
		return err
	}
	content, err := f.FormatScript(s)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, content)
	return err
}

func writeCommentSection(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n-- " + title + "\n")
	for _, item := range items {
		for _, line := range splitCommentLines(item) {
			if line == "" {
				continue
			}
			sb.WriteString("-- - " + line + "\n")
		}
	}
}

func splitCommentLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// writeRollbackAsComments comments out every line of each statement, last
// statement first. Only the final line of a statement is terminated.
func writeRollbackAsComments(sb *strings.Builder, rollback []string) {
	for i := len(rollback) - 1; i >= 0; i-- {
		var lines []string
		for _, line := range splitCommentLines(rollback[i]) {
			if line != "" {
				lines = append(lines, line)
			}
		}
		for j, line := range lines {
			sb.WriteString("-- ")
			sb.WriteString(line)
			if j == len(lines)-1 && !strings.HasSuffix(line, ";") {
				sb.WriteString(";")
			}
			sb.WriteString("\n")
		}
	}
}
