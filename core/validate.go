package core

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateDatabase runs ValidateTable on every table and rejects duplicate
// table names. It returns the first error encountered.
func ValidateDatabase(db *Database) error {
	if db == nil {
		return errors.New("database is nil")
	}
	seen := make(map[string]bool, len(db.Tables))
	for _, t := range db.Tables {
		if t == nil {
			continue
		}
		key := strings.ToLower(t.QualifiedName())
		if seen[key] {
			return fmt.Errorf("duplicate table name %q", t.QualifiedName())
		}
		seen[key] = true
		if err := ValidateTable(t); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTable checks a single table for structural correctness: names,
// unique columns, primary key and distribution key references.
func ValidateTable(t *Table) error {
	if t == nil {
		return errors.New("table is nil")
	}
	if err := validateName(t.Name); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %q: table has no columns", t.Name)
	}

	seenCols := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if col == nil {
			return fmt.Errorf("table %q: nil column", t.Name)
		}
		if err := validateName(col.Name); err != nil {
			return fmt.Errorf("table %q: column: %w", t.Name, err)
		}
		lower := strings.ToLower(col.Name)
		if seenCols[lower] {
			return fmt.Errorf("table %q: duplicate column name %q", t.Name, col.Name)
		}
		seenCols[lower] = true
	}

	for _, name := range t.PrimaryKey {
		if !seenCols[strings.ToLower(name)] {
			return fmt.Errorf("table %q: primary key references unknown column %q", t.Name, name)
		}
	}

	return validateDistribution(t, seenCols)
}

func validateDistribution(t *Table, cols map[string]bool) error {
	if t.DistributeOn.IsDefault() || t.DistributeOn.IsRandom() {
		return nil
	}
	if len(t.DistributeOn) > MaxDistributionColumns {
		return fmt.Errorf("table %q: distribution key has %d columns; at most %d allowed",
			t.Name, len(t.DistributeOn), MaxDistributionColumns)
	}
	seen := make(map[string]bool, len(t.DistributeOn))
	for _, name := range t.DistributeOn {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == strings.ToLower(Random) {
			return fmt.Errorf("table %q: RANDOM cannot be combined with distribution columns", t.Name)
		}
		if !cols[lower] {
			return fmt.Errorf("table %q: distribution key references unknown column %q", t.Name, name)
		}
		if seen[lower] {
			return fmt.Errorf("table %q: distribution key repeats column %q", t.Name, name)
		}
		seen[lower] = true
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is empty")
	}
	if len(name) > MaxIdentifierLength {
		return fmt.Errorf("%q exceeds maximum length %d", name, MaxIdentifierLength)
	}
	return nil
}
