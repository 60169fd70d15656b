package introspect

const (
	systemTablePrefix = "_T_"
	systemViewPrefix  = "_V_"
)

const currentCatalogQuery = `SELECT CURRENT_CATALOG`

const hasTableQuery = `SELECT COUNT(*) FROM _v_object_data WHERE objname = ? AND dbname = CURRENT_CATALOG`

const tableNamesQuery = `SELECT tablename FROM _v_table WHERE objtype = 'TABLE'`

const viewNamesQuery = `SELECT viewname FROM _v_view WHERE objtype = 'VIEW'`

const columnsQuery = `SELECT CAST(a.attname AS VARCHAR(128)) AS name,
       a.atttypid AS typeid,
       a.attnotnull AS notnull,
       a.attcolleng AS length,
       a.format_type,
       a.coldefault
FROM _v_relation_column a
WHERE a.name = ?`

const primaryKeyQuery = `SELECT attname FROM _v_relation_keydata WHERE relation = ? AND contype = 'p'`

const distributionQuery = `SELECT attname FROM _v_table_dist_map WHERE tablename = ?`
