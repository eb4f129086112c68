// Package advisor orchestrates one suggestion run: it prompts the model for
// each configuration section, filters the reply against the record sample,
// and assembles the final suggestion.
package advisor

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/indexpilot/indexpilot/internal/ai"
	"github.com/indexpilot/indexpilot/internal/records"
	"github.com/indexpilot/indexpilot/internal/suggest"
)

// Section names one piece of index configuration the advisor can suggest.
// The value doubles as the JSON field name in the model's reply.
type Section string

const (
	SectionSearchable Section = "searchableAttributes"
	SectionRanking    Section = "customRanking"
	SectionFacets     Section = "attributesForFaceting"
	SectionReplicas   Section = "sortReplicas"
)

// AllSections lists every section in output order.
var AllSections = []Section{SectionSearchable, SectionRanking, SectionFacets, SectionReplicas}

// ParseSections maps user-facing section names (comma list, case-insensitive,
// short aliases allowed) to Sections.
func ParseSections(s string) ([]Section, error) {
	if strings.TrimSpace(s) == "" {
		return AllSections, nil
	}
	var out []Section
	for _, part := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "searchable", "searchableattributes":
			out = append(out, SectionSearchable)
		case "ranking", "customranking":
			out = append(out, SectionRanking)
		case "facets", "attributesforfaceting":
			out = append(out, SectionFacets)
		case "replicas", "sortreplicas":
			out = append(out, SectionReplicas)
		default:
			return nil, fmt.Errorf("unknown section %q (want searchable, ranking, facets, or replicas)", part)
		}
	}
	return out, nil
}

// Suggestion is the outcome of one advisor run.
type Suggestion struct {
	SearchableAttributes  []string           `json:"searchableAttributes,omitempty"`
	CustomRanking         []string           `json:"customRanking,omitempty"`
	AttributesForFaceting []string           `json:"attributesForFaceting,omitempty"`
	SortReplicas          []string           `json:"sortReplicas,omitempty"`
	Explanations          map[Section]string `json:"explanations"`
	Usage                 ai.Usage           `json:"usage"`
	Model                 string             `json:"model"`
	SampleSize            int                `json:"sampleSize"`
}

// Advisor runs suggestion sections against a model.
type Advisor struct {
	completer ai.Completer
	validator *suggest.Validator
	log       *zap.Logger

	// SampleLimit caps how many records are used per run.
	// Zero means records.DefaultSampleLimit.
	SampleLimit int
}

// New creates an Advisor. A nil logger disables diagnostics.
func New(completer ai.Completer, log *zap.Logger) *Advisor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Advisor{
		completer: completer,
		validator: suggest.NewValidator(log),
		log:       log,
	}
}

// Suggest runs the requested sections concurrently against the model and
// returns the combined, validated suggestion. recs beyond the sample limit
// are ignored. An empty sections list means all sections.
func (a *Advisor) Suggest(ctx context.Context, recs []records.Record, sections []Section) (*Suggestion, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("no sample records to suggest from")
	}
	if len(sections) == 0 {
		sections = AllSections
	}

	sample := records.Sample(recs, a.SampleLimit)

	out := &Suggestion{
		Explanations: make(map[Section]string, len(sections)),
		Model:        a.completer.Model(),
		SampleSize:   len(sample),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, section := range sections {
		section := section
		g.Go(func() error {
			res, err := a.runSection(ctx, section, sample)
			if err != nil {
				return fmt.Errorf("section %s: %w", section, err)
			}
			mu.Lock()
			defer mu.Unlock()
			out.set(section, res.attrs)
			out.Explanations[section] = res.explanation
			out.Usage.Add(res.usage)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.log.Info("suggestion run complete",
		zap.String("model", out.Model),
		zap.Int("sample_size", out.SampleSize),
		zap.Int("prompt_tokens", out.Usage.PromptTokens),
		zap.Int("completion_tokens", out.Usage.CompletionTokens),
	)
	return out, nil
}

type sectionResult struct {
	attrs       []string
	explanation string
	usage       ai.Usage
}

// sectionReply covers all four section schemas; only the field matching the
// section is populated.
type sectionReply struct {
	SearchableAttributes  []string `json:"searchableAttributes"`
	CustomRanking         []string `json:"customRanking"`
	AttributesForFaceting []string `json:"attributesForFaceting"`
	SortReplicas          []string `json:"sortReplicas"`
	Explanation           string   `json:"explanation"`
}

func (r *sectionReply) attributes(section Section) []string {
	switch section {
	case SectionSearchable:
		return r.SearchableAttributes
	case SectionRanking:
		return r.CustomRanking
	case SectionFacets:
		return r.AttributesForFaceting
	case SectionReplicas:
		return r.SortReplicas
	}
	return nil
}

func (s *Suggestion) set(section Section, attrs []string) {
	switch section {
	case SectionSearchable:
		s.SearchableAttributes = attrs
	case SectionRanking:
		s.CustomRanking = attrs
	case SectionFacets:
		s.AttributesForFaceting = attrs
	case SectionReplicas:
		s.SortReplicas = attrs
	}
}

func (a *Advisor) runSection(ctx context.Context, section Section, sample []records.Record) (sectionResult, error) {
	prompt, err := buildPrompt(section, sample)
	if err != nil {
		return sectionResult{}, err
	}

	comp, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return sectionResult{}, err
	}

	var reply sectionReply
	if err := ai.ExtractJSON(comp.Text, &reply); err != nil {
		return sectionResult{}, fmt.Errorf("parse model reply: %w", err)
	}

	raw := reply.attributes(section)
	kept := a.validator.Filter(raw, sample, string(section))

	explanation := strings.TrimSpace(reply.Explanation)
	if dropped := len(raw) - len(kept); dropped > 0 {
		explanation = fmt.Sprintf("%s (%d suggestion(s) referencing attributes absent from the sample records were discarded)",
			explanation, dropped)
	}

	if section == SectionFacets {
		kept = appendHierarchies(kept, sample, &explanation)
	}

	return sectionResult{attrs: kept, explanation: explanation, usage: comp.Usage}, nil
}

// appendHierarchies adds detected hierarchical facet attributes the model
// did not already suggest, noting the addition in the explanation.
func appendHierarchies(facets []string, sample []records.Record, explanation *string) []string {
	existing := make(map[string]struct{}, len(facets))
	for _, f := range facets {
		existing[suggest.BaseAttribute(f)] = struct{}{}
	}

	var added []string
	for _, name := range suggest.DetectHierarchies(sample) {
		if _, ok := existing[name]; ok {
			continue
		}
		facets = append(facets, name)
		added = append(added, name)
	}
	if len(added) > 0 {
		*explanation = fmt.Sprintf("%s Hierarchical facet structure detected in: %s.",
			strings.TrimSpace(*explanation), strings.Join(added, ", "))
	}
	return facets
}

// replicaExpr matches the sort expressions a replica suggestion may use.
var replicaExpr = regexp.MustCompile(`^(asc|desc)\((.+)\)$`)

// ReplicaIndexName derives the replica index name for a sort expression,
// e.g. ("products", "desc(price)") -> "products_price_desc". Expressions
// that are not asc(x)/desc(x) yield "".
func ReplicaIndexName(primary, expr string) string {
	m := replicaExpr.FindStringSubmatch(expr)
	if m == nil {
		return ""
	}
	attr := strings.ReplaceAll(m[2], ".", "_")
	return fmt.Sprintf("%s_%s_%s", primary, attr, m[1])
}

// ReplicaIndexNames maps every valid sort expression to its replica name.
func ReplicaIndexNames(primary string, exprs []string) []string {
	names := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		if name := ReplicaIndexName(primary, expr); name != "" {
			names = append(names, name)
		}
	}
	return names
}
