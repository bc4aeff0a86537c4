package stringutils

import "fmt"

// INClause produces the positional placeholders and argument slice for a SQL
// IN (...) clause, e.g. ["$1", "$2"] and the matching args.
func INClause[T any](list []T) (placeholders []string, args []any) {
	placeholders = make([]string, len(list))
	args = make([]any, len(list))
	for i, id := range list {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	return placeholders, args
}

// INClauseFrom is INClause with placeholder numbering starting at a given
// position, for queries that already bind earlier arguments.
func INClauseFrom[T any](list []T, start int) (placeholders []string, args []any) {
	placeholders = make([]string, len(list))
	args = make([]any, len(list))
	for i, id := range list {
		placeholders[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}

	return placeholders, args
}
