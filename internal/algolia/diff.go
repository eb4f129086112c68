package algolia

import "github.com/indexpilot/indexpilot/internal/advisor"

// FieldDiff is the per-setting comparison between the live index and a
// suggestion.
type FieldDiff struct {
	Field   string   `json:"field"`
	Added   []string `json:"added,omitempty"`   // suggested but not live
	Removed []string `json:"removed,omitempty"` // live but not suggested
	Kept    []string `json:"kept,omitempty"`    // present in both
}

// Unchanged reports whether the suggestion matches the live value as a set.
func (d FieldDiff) Unchanged() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// DiffSettings compares the live settings against a suggestion. Replica sort
// expressions are compared by their derived replica index names. Pure; no
// network.
func DiffSettings(indexName string, current Settings, s *advisor.Suggestion) []FieldDiff {
	return []FieldDiff{
		diffList("searchableAttributes", current.SearchableAttributes, s.SearchableAttributes),
		diffList("customRanking", current.CustomRanking, s.CustomRanking),
		diffList("attributesForFaceting", current.AttributesForFaceting, s.AttributesForFaceting),
		diffList("replicas", current.Replicas, advisor.ReplicaIndexNames(indexName, s.SortReplicas)),
	}
}

// diffList compares two attribute lists as sets, preserving the order each
// element first appears in its source list.
func diffList(field string, live, suggested []string) FieldDiff {
	liveSet := toSet(live)
	suggestedSet := toSet(suggested)

	d := FieldDiff{Field: field}
	for _, v := range suggested {
		if _, ok := liveSet[v]; ok {
			d.Kept = append(d.Kept, v)
		} else {
			d.Added = append(d.Added, v)
		}
	}
	for _, v := range live {
		if _, ok := suggestedSet[v]; !ok {
			d.Removed = append(d.Removed, v)
		}
	}
	return d
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
