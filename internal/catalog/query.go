package catalog

import (
	"regexp"
	"strings"
)

// logicalOperatorPattern matches the boolean query keywords the catalog's
// advanced-search parser understands, as whole words in any case.
var logicalOperatorPattern = regexp.MustCompile(`(?i)\b(and|or|not|in)\b`)

// HasLogicalOperators reports whether a raw query should be routed to
// advanced search instead of plain text search. Parenthesised groups count
// even without a keyword.
func HasLogicalOperators(query string) bool {
	if strings.ContainsAny(query, "()") {
		return true
	}
	return logicalOperatorPattern.MatchString(query)
}
