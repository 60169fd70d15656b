package netezza

import (
	"gorm.io/gorm"

	"nzdialect/compiler"
	"nzdialect/core"
)

// TableAsOptions controls CreateTableAs.
type TableAsOptions struct {
	Temporary    bool
	DistributeOn core.DistributeOn
}

// CreateTableAs runs CREATE TABLE name AS (select) with the select built by
// query, for example
//
//	netezza.CreateTableAs(db, "big_orders", netezza.TableAsOptions{DistributeOn: core.DistributeRandom()},
//		func(tx *gorm.DB) *gorm.DB { return tx.Model(&Order{}).Where("amount > ?", 1000).Find(&[]Order{}) })
//
// The select is rendered with its values inlined, as the statement text
// cannot carry bind parameters.
func CreateTableAs(db *gorm.DB, name string, opts TableAsOptions, query func(tx *gorm.DB) *gorm.DB) error {
	selectSQL := db.ToSQL(query)
	schemaName, table := splitTable(name)
	ddl, err := compiler.NewGenerator().CreateTableAs(compiler.CTAS{
		Schema:       schemaName,
		Name:         table,
		Temporary:    opts.Temporary,
		Query:        selectSQL,
		DistributeOn: opts.DistributeOn,
	})
	if err != nil {
		return err
	}
	return db.Exec(ddl).Error
}
