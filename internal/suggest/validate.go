// Package suggest filters model-suggested index attributes against the
// actual shape of the sample records, and detects hierarchical facet
// candidates. Everything here is pure and total: bad suggestions are data to
// drop, never errors to raise.
package suggest

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/indexpilot/indexpilot/internal/records"
)

// modifierPattern strips the Algolia attribute modifier syntax produced by
// the ranking/faceting/searchable generators, e.g. desc(price) -> price.
var modifierPattern = regexp.MustCompile(`^(asc|desc|ordered|unordered|searchable|filterOnly)\((.+)\)$`)

// BaseAttribute strips a recognized modifier wrapper from entry, returning
// the inner expression, or entry unchanged when no modifier matches.
func BaseAttribute(entry string) string {
	if m := modifierPattern.FindStringSubmatch(entry); m != nil {
		return m[2]
	}
	return entry
}

// Validator drops suggested attributes that do not exist in the sample
// records. Models hallucinate attribute names; the sample is ground truth.
type Validator struct {
	log *zap.Logger
}

// NewValidator creates a Validator. A nil logger disables diagnostics.
func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log}
}

// Filter returns the entries of suggested whose every attribute exists in
// sample. Entries keep their original order and original modifier-wrapped
// form; rejected entries are logged and dropped, never raised. An empty
// sample yields an empty result — there is nothing to validate against.
// The label only scopes the diagnostic log lines.
func (v *Validator) Filter(suggested []string, sample []records.Record, label string) []string {
	kept := make([]string, 0, len(suggested))
	if len(sample) == 0 {
		return kept
	}

	valid := records.Keys(sample)

	for _, entry := range suggested {
		base := BaseAttribute(entry)

		// Equal-weight searchable attributes arrive comma-joined ("a,b");
		// the entry survives only if every part exists.
		ok := true
		for _, name := range strings.Split(base, ",") {
			if _, exists := valid[strings.TrimSpace(name)]; !exists {
				ok = false
				break
			}
		}

		if !ok {
			v.log.Info("dropping suggested attribute not present in sample records",
				zap.String("section", label),
				zap.String("attribute", entry),
			)
			continue
		}
		kept = append(kept, entry)
	}

	return kept
}
