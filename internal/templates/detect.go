package templates

import "strings"

// Detect scores every template against the columns and returns the best
// one. A template is skipped unless each required column matches some
// input column, where a match is substring containment in either
// direction. The score is two points per required column plus one per
// optional column found; ties keep the earlier template.
func (r *Registry) Detect(columns []string) (string, bool) {
	lower := make([]string, len(columns))
	for i, c := range columns {
		lower[i] = strings.ToLower(c)
	}

	best, bestScore := "", 0
	for _, t := range r.templates {
		if !matchesAll(lower, t.RequiredColumns) {
			continue
		}
		score := 2 * len(t.RequiredColumns)
		for _, col := range t.OptionalColumns {
			if matchesColumn(lower, col) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = t.ID, score
		}
	}
	return best, best != ""
}

func matchesAll(columns, wanted []string) bool {
	for _, w := range wanted {
		if !matchesColumn(columns, w) {
			return false
		}
	}
	return true
}

func matchesColumn(columns []string, want string) bool {
	for _, c := range columns {
		if strings.Contains(c, want) || strings.Contains(want, c) {
			return true
		}
	}
	return false
}
