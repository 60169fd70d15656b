package apply

import "strings"

// SplitStatements splits a script on semicolons that are outside quotes
// and comments. Comments are removed and empty statements dropped; the
// returned statements carry no trailing semicolon.
func SplitStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	flush := func() {
		if stmt := trimStatement(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\'' || c == '"':
			end := closingQuote(content, i)
			current.WriteString(content[i:end])
			i = end - 1
		case c == '-' && i+1 < len(content) && content[i+1] == '-':
			nl := strings.IndexByte(content[i:], '\n')
			if nl < 0 {
				i = len(content)
				continue
			}
			i += nl - 1
		case c == '/' && i+1 < len(content) && content[i+1] == '*':
			end := strings.Index(content[i+2:], "*/")
			if end < 0 {
				i = len(content)
				continue
			}
			current.WriteByte(' ')
			i += end + 3
		case c == ';':
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return statements
}

// closingQuote returns the index just past the quoted run starting at
// start. Doubled quotes are part of the run.
func closingQuote(s string, start int) int {
	q := s[start]
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

func trimStatement(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimSpace(strings.TrimRight(stmt, ";"))
	return stmt
}

// keywords returns the upper cased words of stmt with quoted text replaced
// by a single placeholder word.
func keywords(stmt string) []string {
	var sb strings.Builder
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		switch {
		case c == '\'' || c == '"':
			i = closingQuote(stmt, i) - 1
			sb.WriteString(" _ ")
		case c == '(' || c == ')' || c == ',':
			sb.WriteByte(' ')
			sb.WriteByte(c)
			sb.WriteByte(' ')
		default:
			sb.WriteByte(c)
		}
	}
	return strings.Fields(strings.ToUpper(sb.String()))
}
