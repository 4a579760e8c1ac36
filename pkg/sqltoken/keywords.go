package sqltoken

import "strings"

// reservedKeywords holds the BigQuery reserved words together with the
// DDL and DML words that style rules treat as keywords.
//
//nolint:gochecknoglobals // static keyword table
var reservedKeywords = map[string]struct{}{
	"ALL": {}, "ALTER": {}, "AND": {}, "ANY": {}, "ARRAY": {}, "AS": {},
	"ASC": {}, "ASSERT_ROWS_MODIFIED": {}, "AT": {}, "BEGIN": {},
	"BETWEEN": {}, "BY": {}, "CASE": {}, "CAST": {}, "COLLATE": {},
	"COMMIT": {}, "CONTAINS": {}, "CREATE": {}, "CROSS": {}, "CUBE": {},
	"CURRENT": {}, "DECLARE": {}, "DEFAULT": {}, "DEFINE": {}, "DELETE": {},
	"DESC": {}, "DISTINCT": {}, "DROP": {}, "ELSE": {}, "END": {},
	"ENUM": {}, "ESCAPE": {}, "EXCEPT": {}, "EXCLUDE": {}, "EXISTS": {},
	"EXTRACT": {}, "FALSE": {}, "FETCH": {}, "FOLLOWING": {}, "FOR": {},
	"FROM": {}, "FULL": {}, "FUNCTION": {}, "GROUP": {}, "GROUPING": {},
	"GROUPS": {}, "HASH": {}, "HAVING": {}, "IF": {}, "IGNORE": {},
	"IN": {}, "INNER": {}, "INSERT": {}, "INTERSECT": {}, "INTERVAL": {},
	"INTO": {}, "IS": {}, "JOIN": {}, "LANGUAGE": {}, "LATERAL": {},
	"LEFT": {}, "LIKE": {}, "LIMIT": {}, "LOOKUP": {}, "MATCHED": {},
	"MERGE": {}, "NATURAL": {}, "NEW": {}, "NO": {}, "NOT": {}, "NULL": {},
	"NULLS": {}, "OF": {}, "OFFSET": {}, "ON": {}, "OPTIONS": {}, "OR": {},
	"ORDER": {}, "OUTER": {}, "OVER": {}, "PARTITION": {}, "PRECEDING": {},
	"PROTO": {}, "QUALIFY": {}, "RANGE": {}, "RECURSIVE": {}, "REPLACE": {},
	"RESPECT": {}, "RETURNS": {}, "RIGHT": {}, "ROLLBACK": {}, "ROLLUP": {},
	"ROWS": {}, "SELECT": {}, "SET": {}, "SOME": {}, "STRUCT": {},
	"TABLE": {}, "TABLESAMPLE": {}, "TEMP": {}, "TEMPORARY": {}, "THEN": {},
	"TO": {}, "TREAT": {}, "TRUE": {}, "TRUNCATE": {}, "UNBOUNDED": {},
	"UNION": {}, "UNNEST": {}, "UPDATE": {}, "USING": {}, "VALUES": {},
	"VIEW": {}, "WHEN": {}, "WHERE": {}, "WINDOW": {}, "WITH": {},
	"WITHIN": {},
}

// IsKeyword reports whether word is a reserved keyword, ignoring case.
func IsKeyword(word string) bool {
	_, ok := reservedKeywords[strings.ToUpper(word)]
	return ok
}

// Keywords returns the keyword table in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(reservedKeywords))
	for kw := range reservedKeywords {
		out = append(out, kw)
	}
	return out
}
