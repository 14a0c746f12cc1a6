package excluder

import (
	"github.com/arthur-debert/buildexcluder/pkg/recovery"
	"github.com/arthur-debert/buildexcluder/pkg/relocate"
	"github.com/arthur-debert/buildexcluder/pkg/rules"
)

// Phase names the hook that produced a report.
type Phase string

const (
	PhasePreBuild  Phase = "pre-build"
	PhasePostBuild Phase = "post-build"
	PhaseStartup   Phase = "startup"
)

// Report summarises one hook run.
type Report struct {
	Phase      Phase           `json:"phase"`
	Target     string          `json:"target,omitempty"`
	RunID      string          `json:"runId,omitempty"`
	Conditions []string        `json:"conditions"`
	Excluded   []string        `json:"excluded"`
	Restored   []string        `json:"restored"`
	Recovered  []string        `json:"recovered"`
	Skipped    []relocate.Skip `json:"skipped"`
	// Notes carries hook level messages such as a missing rules file.
	Notes []string `json:"notes,omitempty"`
}

func newReport(phase Phase) *Report {
	return &Report{
		Phase:      phase,
		Conditions: []string{},
		Excluded:   []string{},
		Restored:   []string{},
		Recovered:  []string{},
		Skipped:    []relocate.Skip{},
	}
}

// Failed reports whether any asset hit an unexpected error.
func (r *Report) Failed() bool {
	for _, s := range r.Skipped {
		if !s.IsWarning() {
			return true
		}
	}
	return false
}

// Changed reports whether anything moved.
func (r *Report) Changed() bool {
	return len(r.Excluded)+len(r.Restored)+len(r.Recovered) > 0
}

func (r *Report) merge(other *Report) {
	r.Restored = append(r.Restored, other.Restored...)
	r.Recovered = append(r.Recovered, other.Recovered...)
	r.Skipped = append(r.Skipped, other.Skipped...)
	r.Notes = append(r.Notes, other.Notes...)
}

// Preview is the read-only evaluation of one asset.
type Preview struct {
	Path       string         `json:"path"`
	Target     string         `json:"target,omitempty"`
	Conditions []string       `json:"conditions"`
	Rule       *rules.Rule    `json:"rule,omitempty"`
	Decision   rules.Decision `json:"decision"`
	// Held reports whether the asset currently sits in holding.
	Held bool `json:"held"`
}

// Excluded reports whether a build for the previewed target drops the asset.
func (p *Preview) Excluded() bool {
	return p.Rule != nil && p.Decision.Exclude
}

// Plan is the read-only evaluation of every effective rule.
type Plan struct {
	Target     string     `json:"target,omitempty"`
	Conditions []string   `json:"conditions"`
	RulesPath  string     `json:"rulesPath"`
	Entries    []*Preview `json:"entries"`
	Duplicates []string   `json:"duplicates,omitempty"`
}

// Status describes what is currently parked.
type Status struct {
	RulesPath  string            `json:"rulesPath"`
	Rules      int               `json:"rules"`
	RulesError string            `json:"rulesError,omitempty"`
	Session    string            `json:"session,omitempty"`
	RunID      string            `json:"runId,omitempty"`
	Tracked    []string          `json:"tracked"`
	Holding    string            `json:"holding"`
	// Residue lists every entry currently in holding, tracked or not.
	Residue []recovery.Orphan `json:"residue"`
}

// Clean reports whether nothing is tracked or parked.
func (s *Status) Clean() bool {
	return len(s.Tracked) == 0 && len(s.Residue) == 0
}
