// Package diff compares two schemas, usually a reflected catalog and a
// schema file, and reports what has to change to turn the old one into the
// new one.
package diff

import (
	"slices"
	"strconv"
	"strings"

	"nzdialect/core"
)

// SchemaDiff represents the differences between two schemas.
type SchemaDiff struct {
	Warnings       []string      `json:"warnings,omitempty"`
	AddedTables    []*core.Table `json:"addedTables,omitempty"`
	RemovedTables  []*core.Table `json:"removedTables,omitempty"`
	ModifiedTables []*TableDiff  `json:"modifiedTables,omitempty"`
}

// TableDiff represents the differences between two versions of a table.
type TableDiff struct {
	Name            string          `json:"name"`
	Old             *core.Table     `json:"-"`
	New             *core.Table     `json:"-"`
	Warnings        []string        `json:"warnings,omitempty"`
	AddedColumns    []*core.Column  `json:"addedColumns,omitempty"`
	RemovedColumns  []*core.Column  `json:"removedColumns,omitempty"`
	ModifiedColumns []*ColumnChange `json:"modifiedColumns,omitempty"`
	// Distribution and PrimaryKey are nil when unchanged.
	Distribution *FieldChange `json:"distribution,omitempty"`
	PrimaryKey   *FieldChange `json:"primaryKey,omitempty"`
}

// ColumnChange represents the differences between two versions of a column.
type ColumnChange struct {
	Name    string         `json:"name"`
	Old     *core.Column   `json:"-"`
	New     *core.Column   `json:"-"`
	Changes []*FieldChange `json:"changes"`
}

// FieldChange is one attribute that differs.
type FieldChange struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Diff compares oldDB with newDB. Tables are matched by name, ignoring case;
// a schema qualifier only has to match when both sides carry one.
func Diff(oldDB, newDB *core.Database) *SchemaDiff {
	d := &SchemaDiff{}
	oldTables := tablesOf(oldDB)
	newTables := tablesOf(newDB)
	d.Warnings = append(d.Warnings, collisions("old schema", oldTables)...)
	d.Warnings = append(d.Warnings, collisions("new schema", newTables)...)

	matched := make(map[*core.Table]bool, len(oldTables))
	for _, nt := range newTables {
		ot := findTable(oldTables, nt, matched)
		if ot == nil {
			d.AddedTables = append(d.AddedTables, nt)
			continue
		}
		matched[ot] = true
		if td := compareTable(ot, nt); td != nil {
			d.ModifiedTables = append(d.ModifiedTables, td)
		}
	}
	for _, ot := range oldTables {
		if !matched[ot] {
			d.RemovedTables = append(d.RemovedTables, ot)
		}
	}

	sortByName(d.AddedTables, (*core.Table).QualifiedName)
	sortByName(d.RemovedTables, (*core.Table).QualifiedName)
	sortByName(d.ModifiedTables, func(td *TableDiff) string { return td.Name })
	return d
}

// IsEmpty returns true if there are no differences in the schema diff.
func (d *SchemaDiff) IsEmpty() bool {
	return len(d.AddedTables) == 0 && len(d.RemovedTables) == 0 && len(d.ModifiedTables) == 0
}

func compareTable(oldT, newT *core.Table) *TableDiff {
	td := &TableDiff{Old: oldT, New: newT}
	td.Name = td.Target().QualifiedName()

	compareColumns(oldT.Columns, newT.Columns, td)
	if !equalDistribution(oldT.DistributeOn, newT.DistributeOn) {
		td.Distribution = &FieldChange{
			Field: "distribute_on",
			Old:   distributionString(oldT.DistributeOn),
			New:   distributionString(newT.DistributeOn),
		}
	}
	if oldPK, newPK := primaryKey(oldT), primaryKey(newT); !equalFoldSlices(oldPK, newPK) {
		td.PrimaryKey = &FieldChange{Field: "primary_key", Old: formatNameList(oldPK), New: formatNameList(newPK)}
	}

	if td.isEmpty() {
		return nil
	}
	return td
}

// Target is the table the ALTER statements address: the old name, with the
// schema qualifier of whichever side carries one.
func (td *TableDiff) Target() *core.Table {
	schema := td.Old.Schema
	if schema == "" {
		schema = td.New.Schema
	}
	return &core.Table{Schema: schema, Name: td.Old.Name}
}

func (td *TableDiff) isEmpty() bool {
	return len(td.AddedColumns) == 0 && len(td.RemovedColumns) == 0 && len(td.ModifiedColumns) == 0 &&
		td.Distribution == nil && td.PrimaryKey == nil
}

// compareColumns keeps the added columns in declaration order of the new
// table, since ADD COLUMN appends.
func compareColumns(oldCols, newCols []*core.Column, td *TableDiff) {
	oldMap, oldCollisions := mapColumnsByName(oldCols)
	newMap, newCollisions := mapColumnsByName(newCols)
	for _, c := range oldCollisions {
		td.Warnings = append(td.Warnings, "old table columns: "+c)
	}
	for _, c := range newCollisions {
		td.Warnings = append(td.Warnings, "new table columns: "+c)
	}

	for _, nc := range newCols {
		oc, ok := oldMap[strings.ToLower(nc.Name)]
		if !ok {
			td.AddedColumns = append(td.AddedColumns, nc)
			continue
		}
		if changes := columnFieldChanges(oc, nc); len(changes) > 0 {
			td.ModifiedColumns = append(td.ModifiedColumns, &ColumnChange{
				Name:    nc.Name,
				Old:     oc,
				New:     nc,
				Changes: changes,
			})
		}
	}
	for _, oc := range oldCols {
		if _, ok := newMap[strings.ToLower(oc.Name)]; !ok {
			td.RemovedColumns = append(td.RemovedColumns, oc)
		}
	}
}

func columnFieldChanges(oldC, newC *core.Column) []*FieldChange {
	c := &fieldChangeCollector{}
	c.Add("type", typeString(oldC), typeString(newC))
	c.Add("nullable", strconv.FormatBool(nullable(oldC)), strconv.FormatBool(nullable(newC)))
	c.Add("default", normalizeDefault(oldC.Default), normalizeDefault(newC.Default))
	return c.Changes
}

func findTable(tables []*core.Table, want *core.Table, taken map[*core.Table]bool) *core.Table {
	for _, t := range tables {
		if taken[t] || !strings.EqualFold(t.Name, want.Name) {
			continue
		}
		if t.Schema == "" || want.Schema == "" || strings.EqualFold(t.Schema, want.Schema) {
			return t
		}
	}
	return nil
}

func tablesOf(db *core.Database) []*core.Table {
	if db == nil {
		return nil
	}
	return slices.DeleteFunc(slices.Clone(db.Tables), func(t *core.Table) bool { return t == nil })
}

func sortByName[T any](items []T, name func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		return strings.Compare(strings.ToLower(name(a)), strings.ToLower(name(b)))
	})
}
