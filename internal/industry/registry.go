package industry

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultID is the policy used when an unknown identifier is requested.
const DefaultID = "medical_aesthetics"

// Registry maps policy identifiers to constructed instances. Adding a
// vertical means adding one entry here.
type Registry struct {
	policies map[string]Policy
}

// NewRegistry constructs the registry with all built-in verticals.
func NewRegistry() *Registry {
	return &Registry{
		policies: map[string]Policy{
			"medical_aesthetics": MedicalAesthetics(),
			"real_estate":        RealEstate(),
		},
	}
}

// Resolve returns the policy for id. Unknown identifiers fall back to
// the default policy with a logged warning, never an error.
func (r *Registry) Resolve(id string) Policy {
	if p, ok := r.policies[id]; ok {
		return p
	}
	zap.L().Warn("unknown industry, using default",
		zap.String("requested", id),
		zap.String("default", DefaultID),
	)
	return r.policies[DefaultID]
}

// Known reports whether id names a registered policy.
func (r *Registry) Known(id string) bool {
	_, ok := r.policies[id]
	return ok
}

// IDs returns the registered policy identifiers in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.policies))
	for id := range r.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Overrides supplements a built-in vertical's vocabulary from a YAML
// file, keyed by policy identifier.
type Overrides struct {
	Keywords   []string `yaml:"keywords"`
	Indicators []string `yaml:"indicators"`
	Negatives  []string `yaml:"negatives"`
}

// ApplyOverridesFile merges per-vertical vocabulary overrides into the
// registry. A missing file is not an error; a malformed one is.
func (r *Registry) ApplyOverridesFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "industry: read overrides %s", path)
	}

	var overrides map[string]Overrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return eris.Wrapf(err, "industry: parse overrides %s", path)
	}

	for id, o := range overrides {
		base, ok := r.policies[id]
		if !ok {
			zap.L().Warn("overrides reference unknown industry", zap.String("industry", id))
			continue
		}
		p, ok := base.(*policy)
		if !ok {
			continue
		}
		merged := *p
		merged.keywords = append(append([]string{}, p.keywords...), o.Keywords...)
		merged.indicators = append(append([]string{}, p.indicators...), o.Indicators...)
		merged.negatives = append(append([]string{}, p.negatives...), o.Negatives...)
		r.policies[id] = &merged
	}
	return nil
}
