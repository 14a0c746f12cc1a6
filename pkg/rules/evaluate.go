package rules

import (
	"sort"
	"strings"
)

// ConditionSet is the set of defines active for a build target.
// Membership is case-insensitive; the zero value is an empty set.
type ConditionSet struct {
	names map[string]string // folded name -> first spelling seen
}

// NewConditionSet builds a set from tokens, dropping blank ones.
func NewConditionSet(tokens ...string) ConditionSet {
	cs := ConditionSet{names: make(map[string]string, len(tokens))}
	cs.add(tokens...)
	return cs
}

// ParseConditionList splits a define string such as "A;B,C" into a set.
// Both ';' (Unity, MSBuild) and ',' separators are accepted.
func ParseConditionList(s string) ConditionSet {
	return NewConditionSet(SplitDefines(s)...)
}

// SplitDefines splits a ';' or ',' separated define string.
func SplitDefines(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ','
	})
}

func (cs *ConditionSet) add(tokens ...string) {
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := cs.names[key]; !ok {
			cs.names[key] = t
		}
	}
}

// Union returns a new set holding the members of both sets.
func (cs ConditionSet) Union(other ConditionSet) ConditionSet {
	out := NewConditionSet(cs.List()...)
	out.add(other.List()...)
	return out
}

// Has reports whether name is active.
func (cs ConditionSet) Has(name string) bool {
	if cs.names == nil {
		return false
	}
	_, ok := cs.names[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Len returns the number of active defines.
func (cs ConditionSet) Len() int {
	return len(cs.names)
}

// List returns the active defines sorted case-insensitively.
func (cs ConditionSet) List() []string {
	out := make([]string, 0, len(cs.names))
	for _, v := range cs.names {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

// Decision explains an evaluation result.
type Decision struct {
	// Exclude is the evaluation outcome.
	Exclude bool `json:"exclude"`
	// Trigger is the token that justified inclusion; empty when excluded or
	// when the rule is inert.
	Trigger string `json:"trigger,omitempty"`
	// Inert is true when the rule has no conditions.
	Inert bool `json:"inert,omitempty"`
}

// Evaluate decides whether rule's asset is excluded under active.
func Evaluate(rule Rule, active ConditionSet) Decision {
	if rule.Inert() {
		return Decision{Inert: true}
	}
	for _, raw := range rule.Conditions {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if name, negated := strings.CutPrefix(token, "!"); negated {
			if !active.Has(name) {
				return Decision{Trigger: token}
			}
			continue
		}
		if active.Has(token) {
			return Decision{Trigger: token}
		}
	}
	return Decision{Exclude: true}
}

// ShouldExclude reports whether rule's asset must be removed from the tree
// for a build with the given active conditions.
func ShouldExclude(rule Rule, active ConditionSet) bool {
	return Evaluate(rule, active).Exclude
}
