// Package translate rewrites MySQL flavoured query text into text Netezza
// accepts. Statements are parsed with the TiDB parser and restored without
// backtick quoting; LIMIT offset, count becomes LIMIT count OFFSET offset.
package translate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"nzdialect/compiler"
)

const restoreFlags = format.RestoreStringSingleQuotes |
	format.RestoreKeyWordUppercase |
	format.RestoreSpacesAroundBinaryOperation

// ErrUnsupportedLimit is returned for LIMIT forms that have no Netezza
// spelling: bind parameters in LIMIT, LIMIT on UPDATE or DELETE, and an
// offset on a nested query.
var ErrUnsupportedLimit = errors.New("unsupported LIMIT")

// Translator parses and restores statements. It is not safe for concurrent
// use because the underlying parser is not.
type Translator struct {
	p      *parser.Parser
	logger *slog.Logger
}

// New creates a Translator. A nil logger discards output.
func New(logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Translator{p: parser.New(), logger: logger}
}

// Translate rewrites every statement of sql and joins them with ";\n".
func (t *Translator) Translate(sql string) (string, error) {
	stmts, warns, err := t.p.Parse(sql, "", "")
	if err != nil {
		return "", fmt.Errorf("failed to parse query: %w", err)
	}
	for _, w := range warns {
		t.logger.Warn("parser warning", slog.Any("warning", w))
	}

	out := make([]string, 0, len(stmts))
	for i, stmt := range stmts {
		text, err := t.statement(stmt)
		if err != nil {
			return "", fmt.Errorf("statement %d: %w", i+1, err)
		}
		out = append(out, text)
	}
	return strings.Join(out, ";\n"), nil
}

func (t *Translator) statement(stmt ast.StmtNode) (string, error) {
	var limit *ast.Limit
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		limit, s.Limit = s.Limit, nil
	case *ast.SetOprStmt:
		limit, s.Limit = s.Limit, nil
	case *ast.UpdateStmt:
		if s.Limit != nil {
			return "", fmt.Errorf("%w: UPDATE cannot be limited", ErrUnsupportedLimit)
		}
	case *ast.DeleteStmt:
		if s.Limit != nil {
			return "", fmt.Errorf("%w: DELETE cannot be limited", ErrUnsupportedLimit)
		}
	}

	finder := &offsetFinder{}
	stmt.Accept(finder)
	if finder.found {
		return "", fmt.Errorf("%w: OFFSET in a nested query", ErrUnsupportedLimit)
	}

	var sb strings.Builder
	if err := stmt.Restore(format.NewRestoreCtx(restoreFlags, &sb)); err != nil {
		return "", fmt.Errorf("failed to restore statement: %w", err)
	}

	if limit != nil {
		clause, err := limitClause(limit)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ")
		sb.WriteString(clause)
	}
	return sb.String(), nil
}

func limitClause(l *ast.Limit) (string, error) {
	count, err := intValue(l.Count)
	if err != nil {
		return "", err
	}
	offset := 0
	if l.Offset != nil {
		if offset, err = intValue(l.Offset); err != nil {
			return "", err
		}
	}
	return compiler.LimitClause(&count, offset), nil
}

func intValue(expr ast.ExprNode) (int, error) {
	v, ok := expr.(ast.ValueExpr)
	if !ok {
		return 0, fmt.Errorf("%w: value must be a literal", ErrUnsupportedLimit)
	}
	switch n := v.GetValue().(type) {
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: value %v is not an integer", ErrUnsupportedLimit, n)
	}
}

// offsetFinder reports whether any LIMIT below the visited node has an offset.
type offsetFinder struct {
	found bool
}

func (f *offsetFinder) Enter(n ast.Node) (ast.Node, bool) {
	if l, ok := n.(*ast.Limit); ok && l.Offset != nil {
		f.found = true
	}
	return n, f.found
}

func (f *offsetFinder) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}
