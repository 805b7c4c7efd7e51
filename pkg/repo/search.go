package repo

import (
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ILikePattern turns a user supplied term into a literal substring pattern.
// LIKE metacharacters in the term are escaped with the default backslash escape.
func ILikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// NormalizeSearch trims the term; an empty result disables searching.
func NormalizeSearch(term string) string {
	return strings.TrimSpace(term)
}

// SearchPredicate renders a case-insensitive substring predicate over the
// given columns. When plantColumn is set, rows whose plant name or code
// matches are included as well:
//
//	(col ILIKE $n OR ... OR plant_col IN (SELECT id FROM plant WHERE name ILIKE $n OR code ILIKE $n))
func SearchPredicate(columns []string, plantColumn string, index int) string {
	placeholder := fmt.Sprintf("$%d", index)
	ors := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		ors = append(ors, fmt.Sprintf("%s ILIKE %s", c, placeholder))
	}
	if plantColumn != "" {
		ors = append(ors, fmt.Sprintf(
			"%s IN (SELECT id FROM plant WHERE name ILIKE %s OR code ILIKE %s)",
			plantColumn, placeholder, placeholder,
		))
	}
	return "(" + strings.Join(ors, " OR ") + ")"
}
