package industry

import (
	"fmt"
	"strings"

	"github.com/ekslens/leadgen-cli/internal/model"
)

// EmailContext carries the vocabulary a drafter needs to write an
// outreach message for one lead in one vertical.
type EmailContext struct {
	LeadName         string   `json:"lead_name"`
	Industry         string   `json:"industry"`
	Products         []string `json:"products"`
	Services         []string `json:"services"`
	TargetAudience   string   `json:"target_audience"`
	ValueProposition string   `json:"value_proposition"`
	Tone             string   `json:"tone"`
}

// Policy encodes domain vocabulary and validation rules for one
// vertical. Implementations are immutable after construction; changing
// industry means constructing a new Policy.
type Policy interface {
	Name() string
	DefaultKeywords() []string
	SearchTerms() []string
	CompanyIndicators() []string
	Validate(l model.Lead) bool
	SearchParams(keyword, city string) map[string]string
	EmailContext(l model.Lead) EmailContext
}

// policy is the shared data-driven Policy implementation. Concrete
// verticals differ only in vocabulary and query shaping.
type policy struct {
	name         string
	keywords     []string
	searchTerms  []string
	indicators   []string
	negatives    []string
	queryClause  string // extra OR-clause appended to search queries
	emailProfile EmailContext
}

func (p *policy) Name() string                { return p.name }
func (p *policy) DefaultKeywords() []string   { return p.keywords }
func (p *policy) SearchTerms() []string       { return p.searchTerms }
func (p *policy) CompanyIndicators() []string { return p.indicators }

// Validate scores the candidate's textual fields against the vertical's
// indicator sets. A lead is accepted iff it hits strictly more positive
// than negative indicators and at least one positive.
func (p *policy) Validate(l model.Lead) bool {
	combined := strings.ToLower(l.DisplayName + " " + l.Description + " " + l.CanonicalURL)

	positive := countHits(combined, p.indicators)
	negative := countHits(combined, p.negatives)

	return positive > negative && positive >= 1
}

func (p *policy) SearchParams(keyword, city string) map[string]string {
	q := fmt.Sprintf("%s %s", keyword, city)
	if p.queryClause != "" {
		q = fmt.Sprintf("%q %q %s", keyword, city, p.queryClause)
	}
	return map[string]string{
		"q":        q,
		"location": city,
	}
}

func (p *policy) EmailContext(l model.Lead) EmailContext {
	ctx := p.emailProfile
	ctx.LeadName = l.DisplayName
	return ctx
}

func countHits(text string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(text, strings.ToLower(ind)) {
			n++
		}
	}
	return n
}
