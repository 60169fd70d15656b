package script

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"nzdialect/compiler"
	"nzdialect/core"
	"nzdialect/internal/diff"
)

// PlanOptions controls Plan.
type PlanOptions struct {
	// Unsafe allows statements that lose data: DROP TABLE and DROP COLUMN.
	// Without it those changes become notes.
	Unsafe bool
	// SkipUnsupported behaves as in Options.
	SkipUnsupported bool
}

// Plan turns a schema diff into the statements that bring the old schema
// in line with the new one. New tables come first, then the ALTER
// statements of every modified table, then drops. Changes Netezza cannot
// make in place are reported as unresolved.
func Plan(d *diff.SchemaDiff, opts PlanOptions) (*Script, error) {
	if d == nil {
		return nil, errors.New("script: diff is nil")
	}
	gen := compiler.NewGenerator()
	s := &Script{}
	for _, w := range d.Warnings {
		s.AddNote(w)
	}

	for _, t := range d.AddedTables {
		if err := s.planCreate(gen, t, opts); err != nil {
			return nil, err
		}
	}
	for _, td := range d.ModifiedTables {
		if err := s.planAlter(gen, td, opts); err != nil {
			return nil, err
		}
	}
	for _, t := range d.RemovedTables {
		if !opts.Unsafe {
			s.AddNote(fmt.Sprintf("table %s is not in the schema; rerun with --unsafe to drop it", t.QualifiedName()))
			continue
		}
		undo, err := gen.CreateTable(t)
		if err != nil {
			undo = ""
		}
		s.addTableStatement(t.QualifiedName(), gen.DropTable(t), undo)
	}

	s.Dedupe()
	return s, nil
}

func (s *Script) planCreate(gen *compiler.Generator, t *core.Table, opts PlanOptions) error {
	ddl, err := gen.CreateTable(t)
	if err != nil && opts.SkipUnsupported {
		ddl, err = s.createWithoutUnsupported(gen, t, err)
	}
	if err != nil {
		if opts.SkipUnsupported {
			s.AddUnresolved(fmt.Sprintf("table %s not generated: %v", t.QualifiedName(), err))
			return nil
		}
		return fmt.Errorf("script: table %s: %w", t.QualifiedName(), err)
	}
	s.addTableStatement(t.QualifiedName(), ddl, gen.DropTable(t))
	return nil
}

func (s *Script) planAlter(gen *compiler.Generator, td *diff.TableDiff, opts PlanOptions) error {
	target := td.Target()
	name := target.QualifiedName()
	for _, w := range td.Warnings {
		s.AddNote(name + ": " + w)
	}

	for _, c := range td.AddedColumns {
		stmt, err := gen.AddColumn(target, c)
		if err != nil {
			if opts.SkipUnsupported {
				s.AddNote(fmt.Sprintf("skipped column %s.%s: %v", name, c.Name, err))
				continue
			}
			return fmt.Errorf("script: table %s: %w", name, err)
		}
		s.addTableStatement(name, stmt, gen.DropColumn(target, c.Name))
		if !c.Nullable && c.Default == nil {
			s.AddNote(fmt.Sprintf("column %s.%s is NOT NULL without a default; ADD COLUMN fails if the table has rows", name, c.Name))
		}
	}

	for _, cc := range td.ModifiedColumns {
		s.planColumnChange(gen, target, cc)
	}

	if td.Distribution != nil {
		s.AddUnresolved(fmt.Sprintf("distribution of %s changes from %s to %s; recreate the table with CREATE TABLE AS",
			name, td.Distribution.Old, td.Distribution.New))
	}
	if td.PrimaryKey != nil {
		s.AddUnresolved(fmt.Sprintf("primary key of %s changes from %s to %s", name, td.PrimaryKey.Old, td.PrimaryKey.New))
	}

	for _, c := range td.RemovedColumns {
		if !opts.Unsafe {
			s.AddNote(fmt.Sprintf("column %s.%s is not in the schema; rerun with --unsafe to drop it", name, c.Name))
			continue
		}
		if slices.ContainsFunc(td.Old.DistributeOn.Columns(), func(d string) bool { return strings.EqualFold(d, c.Name) }) {
			s.AddUnresolved(fmt.Sprintf("column %s.%s is part of the distribution key and cannot be dropped", name, c.Name))
			continue
		}
		undo, err := gen.AddColumn(target, c)
		if err != nil {
			undo = ""
		}
		s.addTableStatement(name, gen.DropColumn(target, c.Name), undo)
	}
	return nil
}

func (s *Script) planColumnChange(gen *compiler.Generator, target *core.Table, cc *diff.ColumnChange) {
	name := target.QualifiedName()
	for _, ch := range cc.Changes {
		switch ch.Field {
		case "type":
			stmt, err := gen.ModifyColumn(target, cc.Old, cc.New)
			if err != nil {
				s.AddUnresolved(fmt.Sprintf("%s: %v", name, err))
				continue
			}
			// Netezza cannot shrink the column back.
			s.addTableStatement(name, stmt, "")
		case "default":
			s.addTableStatement(name, gen.AlterDefault(target, cc.New), gen.AlterDefault(target, cc.Old))
		default:
			s.AddUnresolved(fmt.Sprintf("column %s.%s: %s changes from %s to %s; Netezza cannot alter it in place",
				name, cc.Name, ch.Field, ch.Old, ch.New))
		}
	}
}
