package defines

import (
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
)

// Source yields the conditions active for a build target. The target is
// source specific: an MSBuild configuration such as Release|AnyCPU or a
// Unity platform such as Android. An empty target selects only what applies
// to every target.
type Source interface {
	Name() string
	Defines(target string) (rules.ConditionSet, error)
}

// Static is a fixed list of conditions.
type Static struct {
	tokens []string
}

// NewStatic returns a source that always yields tokens.
func NewStatic(tokens ...string) *Static {
	var all []string
	for _, t := range tokens {
		all = append(all, rules.SplitDefines(t)...)
	}
	return &Static{tokens: all}
}

func (s *Static) Name() string { return "flags" }

func (s *Static) Defines(string) (rules.ConditionSet, error) {
	return rules.NewConditionSet(s.tokens...), nil
}

// SourceResult is the outcome of one source during resolution.
type SourceResult struct {
	Source  string   `json:"source"`
	Defines []string `json:"defines"`
	Err     error    `json:"-"`
	Error   string   `json:"error,omitempty"`
}

// Multi unions several sources.
type Multi struct {
	sources []Source
}

// NewMulti combines sources; nil entries are ignored.
func NewMulti(sources ...Source) *Multi {
	m := &Multi{}
	for _, s := range sources {
		if s != nil {
			m.sources = append(m.sources, s)
		}
	}
	return m
}

func (m *Multi) Name() string { return "all" }

// Defines returns the union of every source that resolved.
func (m *Multi) Defines(target string) (rules.ConditionSet, error) {
	active, _ := m.Explain(target)
	return active, nil
}

// Explain resolves every source and reports each one's contribution.
func (m *Multi) Explain(target string) (rules.ConditionSet, []SourceResult) {
	logger := logging.GetLogger("defines")
	active := rules.NewConditionSet()
	results := make([]SourceResult, 0, len(m.sources))

	for _, s := range m.sources {
		cs, err := s.Defines(target)
		res := SourceResult{Source: s.Name()}
		if err != nil {
			logger.Warn().Err(err).Str("source", s.Name()).Msg("Skipping condition source")
			res.Err = err
			res.Error = err.Error()
			results = append(results, res)
			continue
		}
		res.Defines = cs.List()
		active = active.Union(cs)
		results = append(results, res)
	}

	logger.Debug().
		Str("target", target).
		Strs("defines", active.List()).
		Msg("Resolved active conditions")
	return active, results
}

// Explanation is the per-source breakdown of a resolution.
type Explanation struct {
	Target  string         `json:"target,omitempty"`
	Active  []string       `json:"active"`
	Sources []SourceResult `json:"sources"`
}

// Explanation resolves every source for target.
func (m *Multi) Explanation(target string) *Explanation {
	active, results := m.Explain(target)
	return &Explanation{
		Target:  target,
		Active:  active.List(),
		Sources: results,
	}
}
