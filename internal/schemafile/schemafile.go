// Package schemafile reads and writes the nzdialect TOML schema format.
// A schema file describes the tables of one Netezza database, including
// their distribution keys, and converts to the core.Database model used by
// the DDL generator.
package schemafile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"nzdialect/core"
)

// NOTE: an empty schema is accepted; ValidateDatabase only runs on the
// tables that are present.

// schemaFile is the top-level TOML document. [database] and [[tables]] are
// both top-level keys.
type schemaFile struct {
	Database tomlDatabase `toml:"database"`
	Tables   []tomlTable  `toml:"tables"`
}

// tomlDatabase maps [database].
type tomlDatabase struct {
	Name string `toml:"name"`
}

// tomlTable maps [[tables]].
type tomlTable struct {
	Name   string `toml:"name"`
	Schema string `toml:"schema,omitempty"`
	// DistributeOn lists hash columns, or the single entry "random".
	// Leaving it out keeps the database default placement.
	DistributeOn []string     `toml:"distribute_on,omitempty"`
	PrimaryKey   []string     `toml:"primary_key,omitempty"`
	Columns      []tomlColumn `toml:"columns"`
}

// tomlColumn maps [[tables.columns]].
type tomlColumn struct {
	Name       string `toml:"name"`
	Type       string `toml:"type,omitempty"`
	RawType    string `toml:"raw_type,omitempty"`
	Nullable   bool   `toml:"nullable,omitempty"`
	PrimaryKey bool   `toml:"primary_key,omitempty"`

	// Default accepts string, bool, or number from TOML. Strings are SQL
	// expressions and are written verbatim after DEFAULT.
	Default any `toml:"default,omitempty"`
}

// Parser reads nzdialect TOML schema files.
type Parser struct{}

// NewParser creates a new TOML schema parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile opens the file at the given path and parses it as a TOML schema.
func (p *Parser) ParseFile(path string) (*core.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: open file %q: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads TOML content from r and returns the corresponding
// core.Database. Column type errors of one table are reported together.
func (p *Parser) Parse(r io.Reader) (*core.Database, error) {
	var sf schemaFile
	md, err := toml.NewDecoder(r).Decode(&sf)
	if err != nil {
		return nil, fmt.Errorf("schemafile: decode error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("schemafile: unknown keys: %s", strings.Join(keys, ", "))
	}

	return newConverter(&sf).convert()
}

type converter struct {
	sf         *schemaFile
	seenTables map[string]bool
}

func newConverter(sf *schemaFile) *converter {
	return &converter{
		sf:         sf,
		seenTables: make(map[string]bool, len(sf.Tables)),
	}
}

func (c *converter) convert() (*core.Database, error) {
	db := &core.Database{
		Name:   c.sf.Database.Name,
		Tables: make([]*core.Table, 0, len(c.sf.Tables)),
	}

	for i := range c.sf.Tables {
		t, err := c.convertTable(&c.sf.Tables[i])
		if err != nil {
			return nil, fmt.Errorf("schemafile: table %q: %w", c.sf.Tables[i].Name, err)
		}
		db.Tables = append(db.Tables, t)
	}

	if err := core.ValidateDatabase(db); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return db, nil
}

func (c *converter) convertTable(tt *tomlTable) (*core.Table, error) {
	if strings.TrimSpace(tt.Name) == "" {
		return nil, errors.New("table name is empty")
	}
	key := strings.ToLower(tt.Schema + "." + tt.Name)
	if c.seenTables[key] {
		return nil, errors.New("duplicate table name")
	}
	c.seenTables[key] = true

	t := &core.Table{
		Schema:     tt.Schema,
		Name:       tt.Name,
		PrimaryKey: tt.PrimaryKey,
		Columns:    make([]*core.Column, 0, len(tt.Columns)),
	}

	var errs []error
	for i := range tt.Columns {
		col, err := convertColumn(tt.Name, &tt.Columns[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.Columns = append(t.Columns, col)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if len(t.PrimaryKey) == 0 {
		for _, col := range t.Columns {
			if col.PrimaryKey {
				t.PrimaryKey = append(t.PrimaryKey, col.Name)
			}
		}
	}
	for _, name := range t.PrimaryKey {
		if col := t.FindColumn(name); col != nil {
			col.PrimaryKey = true
			col.Nullable = false
		}
	}

	t.DistributeOn = distribution(tt.DistributeOn)
	for _, name := range t.DistributeOn.Columns() {
		if col := t.FindColumn(name); col != nil {
			col.Distribution = true
		}
	}
	return t, nil
}

func distribution(names []string) core.DistributeOn {
	if len(names) == 0 {
		return nil
	}
	if len(names) == 1 && strings.EqualFold(strings.TrimSpace(names[0]), core.Random) {
		return core.DistributeRandom()
	}
	return core.DistributeOn(names)
}
