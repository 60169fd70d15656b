package script

import (
	"errors"
	"fmt"
	"strings"

	"nzdialect/compiler"
	"nzdialect/core"
)

// Options controls Build.
type Options struct {
	// SkipUnsupported leaves out columns whose type cannot be rendered and
	// records a note for each, instead of failing.
	SkipUnsupported bool
	// DropFirst emits DROP TABLE before every CREATE TABLE.
	DropFirst bool
}

// Build renders a CREATE TABLE statement per table of db, each paired with
// the DROP TABLE that undoes it.
func Build(db *core.Database, opts Options) (*Script, error) {
	if db == nil {
		return nil, errors.New("script: database is nil")
	}
	gen := compiler.NewGenerator()
	s := &Script{}

	for _, t := range db.Tables {
		if t == nil {
			continue
		}
		ddl, err := gen.CreateTable(t)
		if err != nil && opts.SkipUnsupported {
			ddl, err = s.createWithoutUnsupported(gen, t, err)
		}
		if err != nil {
			if opts.SkipUnsupported {
				s.AddUnresolved(fmt.Sprintf("table %s not generated: %v", t.QualifiedName(), err))
				continue
			}
			return nil, fmt.Errorf("script: table %s: %w", t.QualifiedName(), err)
		}

		if opts.DropFirst {
			s.addTableStatement(t.QualifiedName(), gen.DropTable(t), "")
		}
		s.addTableStatement(t.QualifiedName(), ddl, gen.DropTable(t))
		if t.DistributeOn.IsDefault() {
			s.AddNote(fmt.Sprintf("table %s has no DISTRIBUTE ON; the database default applies", t.QualifiedName()))
		}
	}

	s.Dedupe()
	return s, nil
}

// createWithoutUnsupported retries CREATE TABLE without the columns named in
// cause. Anything but unsupported type errors is returned unchanged.
func (s *Script) createWithoutUnsupported(gen *compiler.Generator, t *core.Table, cause error) (string, error) {
	bad := unsupported(cause)
	if len(bad) == 0 {
		return "", cause
	}

	skip := make(map[string]bool, len(bad))
	for _, ute := range bad {
		skip[strings.ToLower(ute.Column)] = true
	}
	trimmed := *t
	trimmed.Columns = make([]*core.Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !skip[strings.ToLower(c.Name)] {
			trimmed.Columns = append(trimmed.Columns, c)
		}
	}

	ddl, err := gen.CreateTable(&trimmed)
	if err != nil {
		return "", err
	}
	for _, ute := range bad {
		s.AddNote("skipped column " + t.QualifiedName() + "." + ute.Column + ": " + ute.Error())
	}
	return ddl, nil
}

func unsupported(err error) []*core.UnsupportedTypeError {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	out := make([]*core.UnsupportedTypeError, 0, len(errs))
	for _, e := range errs {
		var ute *core.UnsupportedTypeError
		if !errors.As(e, &ute) {
			return nil
		}
		out = append(out, ute)
	}
	return out
}
