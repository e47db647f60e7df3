package dialect

// baselineKeywords is the SQL-92 style set shared by every dialect.
var baselineKeywords = []string{
	"SELECT", "FROM", "WHERE", "INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE",
	"CREATE", "TABLE", "DROP", "ALTER", "INDEX", "VIEW", "JOIN", "LEFT", "RIGHT",
	"INNER", "OUTER", "ON", "AND", "OR", "NOT", "NULL", "IS", "IN", "BETWEEN", "LIKE",
	"LIMIT", "OFFSET", "ORDER", "BY", "GROUP", "HAVING", "AS", "CASE", "WHEN", "THEN",
	"ELSE", "END", "UNION", "ALL", "DISTINCT", "EXISTS", "COUNT", "SUM", "AVG", "MIN", "MAX",
	"CAST", "CONVERT", "COALESCE", "DATE", "TIME", "TIMESTAMP", "INTERVAL", "CONSTRAINT",
	"PRIMARY", "KEY", "FOREIGN", "REFERENCES",
}

var builtinStandard = NewDialect(Standard).
	WithKeywords(baselineKeywords...).
	Configure(func(d *Dialect) {
		d.PlainBeginBlock = true
	}).
	Build()

var builtinMySQL = Extend(MySQL, builtinStandard).
	Identifiers('`', '`').
	WithKeywords(
		"AUTO_INCREMENT", "DUPLICATE", "ENGINE", "IGNORE", "REPLACE", "SHOW", "USE",
		"DATABASE", "DATABASES", "DESCRIBE", "EXPLAIN", "UNSIGNED", "REGEXP", "RLIKE",
		"STRAIGHT_JOIN", "IFNULL", "GROUP_CONCAT", "CHARSET", "COLLATE", "ZEROFILL",
	).
	Configure(func(d *Dialect) {
		d.HashComments = true
		d.Rlike = true
		d.LimitComma = true
		d.OnDuplicateKey = true
	}).
	Build()

var builtinPostgreSQL = Extend(PostgreSQL, builtinStandard).
	WithKeywords(
		"ILIKE", "RETURNING", "SERIAL", "BIGSERIAL", "JSONB", "ARRAY", "LATERAL",
		"CONFLICT", "DO", "NOTHING", "ONLY", "FILTER", "OVER", "PARTITION",
		"WINDOW", "RECURSIVE", "MATERIALIZED", "SIMILAR", "USING", "NULLS",
	).
	Configure(func(d *Dialect) {
		d.CastOperator = true
		d.DollarParams = true
		d.Ilike = true
		d.Returning = true
		d.OnConflict = true
		d.DistinctOn = true
	}).
	Build()

var builtinSpark = Extend(Spark, builtinStandard).
	Identifiers('`', '`').
	WithKeywords(sparkReservedKeywords...).
	WithKeywords(
		"LATERAL", "EXPLODE", "PARTITIONED", "CLUSTER", "DISTRIBUTE", "SORT",
		"OVERWRITE", "TBLPROPERTIES", "STORED", "QUALIFY", "RLIKE", "REGEXP",
		"ARRAY", "MAP", "STRUCT", "USING",
	).
	Configure(func(d *Dialect) {
		d.Rlike = true
		d.LateralView = true
		d.QualifyClause = true
	}).
	Build()
