package board

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Roster is the fixed set of assignable people for a board.
type Roster []string

// NormalizeName canonicalizes an assignee name: trims and collapses
// whitespace and title-cases each word so "nate  p." matches "Nate P.".
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}

// Contains reports whether the normalized name is on the roster.
func (r Roster) Contains(name string) bool {
	_, ok := r.Resolve(name)
	return ok
}

// Resolve maps free-form input to the roster's canonical spelling.
func (r Roster) Resolve(name string) (string, bool) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return "", false
	}
	for _, member := range r {
		if strings.EqualFold(member, normalized) {
			return member, true
		}
	}
	return "", false
}
