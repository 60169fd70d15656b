package compiler

import (
	"errors"
	"strings"

	"nzdialect/core"
)

// CTAS describes a CREATE TABLE ... AS statement.
type CTAS struct {
	Schema       string
	Name         string
	Temporary    bool
	Query        string
	DistributeOn core.DistributeOn
}

// CreateTableAs renders a CTAS statement. The select text is embedded as is.
func (g *Generator) CreateTableAs(c CTAS) (string, error) {
	if strings.TrimSpace(c.Name) == "" {
		return "", errors.New("create table as: table name is empty")
	}
	query := strings.TrimRight(strings.TrimSpace(c.Query), ";")
	if query == "" {
		return "", errors.New("create table as: select statement is empty")
	}
	if err := checkDistribution(c.DistributeOn); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("CREATE ")
	if c.Temporary {
		sb.WriteString("TEMP ")
	}
	sb.WriteString("TABLE ")
	sb.WriteString(g.tableName(&core.Table{Schema: c.Schema, Name: c.Name}))
	sb.WriteString(" AS (")
	sb.WriteString(query)
	sb.WriteString(")")
	if dist := g.DistributeClause(c.DistributeOn); dist != "" {
		sb.WriteString(" ")
		sb.WriteString(dist)
	}
	return sb.String(), nil
}

// checkDistribution validates a key without a column list to check against.
func checkDistribution(d core.DistributeOn) error {
	if d.IsDefault() || d.IsRandom() {
		return nil
	}
	if len(d) > core.MaxDistributionColumns {
		return errors.New("create table as: distribution key has too many columns")
	}
	for _, c := range d {
		if strings.EqualFold(strings.TrimSpace(c), core.Random) {
			return errors.New("create table as: RANDOM cannot be combined with columns")
		}
	}
	return nil
}
