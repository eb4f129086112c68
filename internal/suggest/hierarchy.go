package suggest

import (
	"strings"

	"github.com/indexpilot/indexpilot/internal/records"
)

// hierarchySeparator is the Algolia path separator for hierarchical facet
// values ("Products > Fruits"). The surrounding spaces matter: a bare ">"
// (as in "5>3") is not a hierarchy marker.
const hierarchySeparator = " > "

// DetectHierarchies returns the top-level attribute names whose values look
// like hierarchical facets: non-array objects where at least one property
// value (string, or any string element of an array) contains the path
// separator. The result is a union across all records, deduplicated in
// first-seen order; callers must not rely on any particular order.
func DetectHierarchies(sample []records.Record) []string {
	seen := make(map[string]struct{})
	var found []string

	for _, rec := range sample {
		for name, value := range rec {
			obj, ok := value.(map[string]any)
			if !ok {
				// nil, scalars, and arrays are never hierarchical facets
				continue
			}
			if !hasHierarchyMarker(obj) {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			found = append(found, name)
		}
	}

	return found
}

func hasHierarchyMarker(obj map[string]any) bool {
	for _, value := range obj {
		switch v := value.(type) {
		case string:
			if strings.Contains(v, hierarchySeparator) {
				return true
			}
		case []any:
			for _, element := range v {
				if s, ok := element.(string); ok && strings.Contains(s, hierarchySeparator) {
					return true
				}
			}
		}
	}
	return false
}
