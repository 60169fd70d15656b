package schemafile

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"nzdialect/core"
	"nzdialect/typemap"
)

// Encode writes db as a TOML schema document. Columns whose type cannot be
// rendered keep only their raw_type.
func Encode(w io.Writer, db *core.Database) error {
	if db == nil {
		return fmt.Errorf("schemafile: database is nil")
	}
	sf := schemaFile{
		Database: tomlDatabase{Name: db.Name},
		Tables:   make([]tomlTable, 0, len(db.Tables)),
	}
	for _, t := range db.Tables {
		if t == nil {
			continue
		}
		sf.Tables = append(sf.Tables, encodeTable(t))
	}

	if err := toml.NewEncoder(w).Encode(sf); err != nil {
		return fmt.Errorf("schemafile: encode error: %w", err)
	}
	return nil
}

// EncodeFile writes db to path, replacing any existing file.
func EncodeFile(path string, db *core.Database) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("schemafile: create file %q: %w", path, err)
	}
	if err := Encode(f, db); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeTable(t *core.Table) tomlTable {
	tt := tomlTable{
		Name:       t.Name,
		Schema:     t.Schema,
		PrimaryKey: t.PrimaryKey,
		Columns:    make([]tomlColumn, 0, len(t.Columns)),
	}
	switch {
	case t.DistributeOn.IsRandom():
		tt.DistributeOn = []string{"random"}
	case !t.DistributeOn.IsDefault():
		tt.DistributeOn = t.DistributeOn
	}

	for _, c := range t.Columns {
		tc := tomlColumn{
			Name:     c.Name,
			Nullable: c.Nullable,
		}
		if len(t.PrimaryKey) == 0 {
			tc.PrimaryKey = c.PrimaryKey
		}
		if rendered, err := typemap.Render(c.Type); err == nil {
			tc.Type = rendered
		} else {
			tc.RawType = c.RawType
		}
		if c.Default != nil {
			tc.Default = *c.Default
		}
		tt.Columns = append(tt.Columns, tc)
	}
	return tt
}
