package rules

import (
	"slices"
	"strings"
)

// Rule maps one asset path to the conditions controlling its inclusion.
type Rule struct {
	// AssetPath is the logical, tree-rooted path (e.g. Assets/DebugTools).
	AssetPath string `toml:"asset_path" yaml:"asset_path" json:"assetPath"`

	// Conditions are define tokens, bare (X) or negated (!X).
	Conditions []string `toml:"defines" yaml:"defines" json:"defines"`
}

// Inert reports whether the rule can never exclude its asset.
func (r Rule) Inert() bool {
	return len(r.Conditions) == 0
}

// RuleSet is the ordered rule list; it is the unit of persistence.
type RuleSet struct {
	Entries []Rule `toml:"entries" yaml:"entries" json:"entries"`
}

// Len returns the number of entries.
func (rs RuleSet) Len() int {
	return len(rs.Entries)
}

// Lookup returns the first rule for assetPath.
func (rs RuleSet) Lookup(assetPath string) (Rule, bool) {
	for _, r := range rs.Entries {
		if r.AssetPath == assetPath {
			return r, true
		}
	}
	return Rule{}, false
}

// Effective returns the rules that take part in evaluation: the first entry
// for each asset path, in file order.
func (rs RuleSet) Effective() []Rule {
	seen := make(map[string]bool, len(rs.Entries))
	out := make([]Rule, 0, len(rs.Entries))
	for _, r := range rs.Entries {
		if seen[r.AssetPath] {
			continue
		}
		seen[r.AssetPath] = true
		out = append(out, r)
	}
	return out
}

// Duplicates returns asset paths that appear in more than one entry.
func (rs RuleSet) Duplicates() []string {
	counts := make(map[string]int, len(rs.Entries))
	var dups []string
	for _, r := range rs.Entries {
		counts[r.AssetPath]++
		if counts[r.AssetPath] == 2 {
			dups = append(dups, r.AssetPath)
		}
	}
	return dups
}

// Set replaces the conditions of the first rule for assetPath, or appends a
// new rule when none exists.
func (rs *RuleSet) Set(assetPath string, conditions []string) {
	conds := normalizeTokens(conditions)
	for i := range rs.Entries {
		if rs.Entries[i].AssetPath == assetPath {
			rs.Entries[i].Conditions = conds
			return
		}
	}
	rs.Entries = append(rs.Entries, Rule{AssetPath: assetPath, Conditions: conds})
}

// Remove drops every rule for assetPath and reports how many were removed.
func (rs *RuleSet) Remove(assetPath string) int {
	before := len(rs.Entries)
	rs.Entries = slices.DeleteFunc(rs.Entries, func(r Rule) bool {
		return r.AssetPath == assetPath
	})
	return before - len(rs.Entries)
}

// Prune drops inert rules and blank tokens, returning the number of rules
// removed.
func (rs *RuleSet) Prune() int {
	before := len(rs.Entries)
	kept := make([]Rule, 0, before)
	for _, r := range rs.Entries {
		r.Conditions = normalizeTokens(r.Conditions)
		if r.Inert() {
			continue
		}
		kept = append(kept, r)
	}
	rs.Entries = kept
	return before - len(rs.Entries)
}

// DefaultRuleSet returns the starter rules written by `rules init`.
func DefaultRuleSet() RuleSet {
	return RuleSet{Entries: []Rule{
		{AssetPath: "Assets/StoreSpecific/GooglePlay", Conditions: []string{"STORE_GOOGLEPLAY"}},
		{AssetPath: "Assets/StoreSpecific/AppGallery", Conditions: []string{"STORE_APPGALLERY"}},
		{AssetPath: "Assets/DebugTools", Conditions: []string{"!DEBUG_BUILD"}},
		{AssetPath: "Assets/DeveloperAssets", Conditions: []string{"!DEVELOPMENT_BUILD"}},
	}}
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
