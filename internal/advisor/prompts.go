package advisor

import (
	"encoding/json"
	"fmt"

	"github.com/indexpilot/indexpilot/internal/records"
)

// Each section prompt demands a strict JSON reply with a single list field
// and an explanation. The reply schema field name matches the Section value
// so one decode struct covers all four.

const searchablePrompt = `You are an Algolia search relevance expert. Given sample records from an
index, choose the searchable attributes: the text fields users would type
queries against, ordered from most to least important.

Rules:
- Only use attribute names that appear in the sample records.
- Use "a,b" (comma-joined) for attributes of equal importance.
- Skip identifiers, URLs, image paths, and numeric-only fields.
- 2 to 6 entries is typical.

Return JSON only:
{"searchableAttributes": ["name", "title,subtitle"], "explanation": "brief reasoning"}

Sample records:
%s`

const rankingPrompt = `You are an Algolia search relevance expert. Given sample records from an
index, choose the custom ranking: numeric or boolean attributes used as
tie-breakers after textual relevance, best first.

Rules:
- Only use attribute names that appear in the sample records.
- Wrap each attribute in asc(x) or desc(x).
- Prefer popularity, rating, recency, or other quality signals.
- 1 to 3 entries is typical; an empty list is acceptable.

Return JSON only:
{"customRanking": ["desc(popularity)"], "explanation": "brief reasoning"}

Sample records:
%s`

const facetsPrompt = `You are an Algolia search relevance expert. Given sample records from an
index, choose the attributes for faceting: low-cardinality fields users
would filter or drill down by.

Rules:
- Only use attribute names that appear in the sample records.
- Wrap an attribute in searchable(x) when users should search facet values,
  or filterOnly(x) when it is only used in filters and never displayed.
- Skip free-text and high-cardinality fields.

Return JSON only:
{"attributesForFaceting": ["searchable(brand)", "filterOnly(ownerId)"], "explanation": "brief reasoning"}

Sample records:
%s`

const replicasPrompt = `You are an Algolia search relevance expert. Given sample records from an
index, suggest sort replicas: alternate sort orders worth offering as
dedicated replica indices (e.g. price low-to-high, newest first).

Rules:
- Only use attribute names that appear in the sample records.
- Wrap each attribute in asc(x) or desc(x).
- Only numeric or date attributes users plausibly sort by.
- 0 to 4 entries is typical.

Return JSON only:
{"sortReplicas": ["asc(price)", "desc(createdAt)"], "explanation": "brief reasoning"}

Sample records:
%s`

var sectionPrompts = map[Section]string{
	SectionSearchable: searchablePrompt,
	SectionRanking:    rankingPrompt,
	SectionFacets:     facetsPrompt,
	SectionReplicas:   replicasPrompt,
}

// buildPrompt renders the prompt for one section over the record sample.
func buildPrompt(section Section, sample []records.Record) (string, error) {
	tmpl, ok := sectionPrompts[section]
	if !ok {
		return "", fmt.Errorf("unknown section %q", section)
	}
	sampleJSON, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sample records: %w", err)
	}
	return fmt.Sprintf(tmpl, string(sampleJSON)), nil
}
