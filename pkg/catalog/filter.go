package catalog

import (
	"strings"

	"herbal/entities"
)

// Filter returns the plants whose name contains query, ignoring case, in their
// original order. An empty query returns all unchanged. Plants without a name
// only match the empty query.
func Filter(all []entities.Plant, query string) []entities.Plant {
	if query == "" {
		return all
	}
	q := strings.ToUpper(query)
	out := make([]entities.Plant, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToUpper(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}
