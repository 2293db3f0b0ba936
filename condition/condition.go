// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package condition evaluates component presence predicates against
// a [Registry].
//
// A [Predicate] declares what must be registered, by name, by type
// or by label. [Evaluate] reports which clauses found a candidate,
// and the decision helpers [OnPresent], [OnAbsent] and
// [OnSingleCandidate] turn that into a final [Outcome] along with a
// human readable reason, so a caller deciding whether to enable an
// optional piece of a system can log why.
package condition

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Strategy controls which registries of a hierarchy a [Predicate]
// searches.
type Strategy int

const (
	// SearchCurrent restricts the search to the given [Registry].
	SearchCurrent Strategy = iota

	// SearchAncestors searches every ancestor of the given
	// [Registry], but not the Registry itself.
	SearchAncestors

	// SearchAll searches the given [Registry] and every ancestor.
	SearchAll
)

// Predicate declares the components which must be registered for a
// condition to hold. Every declared clause must find at least one
// candidate, while within a single clause any one candidate is
// enough.
type Predicate struct {
	// Names matches components registered under the exact name.
	Names []string

	// Types matches components whose type is assignable to the
	// declared type.
	Types []reflect.Type

	// Labels matches components carrying the label.
	Labels []string

	// IgnoredTypes removes candidates from consideration before any
	// clause is decided.
	IgnoredTypes []reflect.Type

	// Strategy controls how much of the [Registry] hierarchy is
	// searched. Defaults to [SearchCurrent].
	Strategy Strategy
}

// EmptyPredicateError occurs when a [Predicate] declares no clauses
// at all, which would match anything and almost certainly signals a
// mistake in the caller.
type EmptyPredicateError struct{}

// Error implements the [builtin.error] interface.
func (e EmptyPredicateError) Error() string {
	return "a predicate must declare at least one name, type or label"
}

// InvalidPredicateError occurs when a [Predicate] is malformed for
// the decision it is used with.
type InvalidPredicateError struct {
	Reason string
}

// Error implements the [builtin.error] interface.
func (e InvalidPredicateError) Error() string {
	return "invalid predicate: " + e.Reason
}

// MatchResult accumulates the per clause outcomes of evaluating a
// [Predicate].
type MatchResult struct {
	matched   map[string]Component
	unmatched []string
	clauses   int
}

// AllMatched reports whether every declared clause found at least
// one candidate.
func (r *MatchResult) AllMatched() bool {
	return len(r.unmatched) == 0
}

// AnyMatched reports whether at least one declared clause found a
// candidate.
func (r *MatchResult) AnyMatched() bool {
	return r.clauses > len(r.unmatched)
}

// Matches returns the names of every candidate component which
// satisfied a clause, sorted and deduplicated.
func (r *MatchResult) Matches() []string {
	names := make([]string, 0, len(r.matched))
	for name := range r.matched {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Primaries returns the names of the matched candidates flagged as
// [Component.Primary], sorted.
func (r *MatchResult) Primaries() []string {
	var names []string
	for name, c := range r.matched {
		if c.Primary {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Unmatched returns a description of every clause which found no
// candidate, in declaration order.
func (r *MatchResult) Unmatched() []string {
	return slices.Clone(r.unmatched)
}

func (r *MatchResult) record(clause string, cs []Component) {
	r.clauses++
	if len(cs) == 0 {
		r.unmatched = append(r.unmatched, clause)
		return
	}
	for _, c := range cs {
		r.matched[c.Name] = c
	}
}

// Evaluate decides each clause of the [Predicate] against the
// [Registry] and accumulates the outcomes into a [MatchResult].
// Candidates of an ignored type are removed before any clause is
// decided. A nil Registry holds nothing and leaves every clause
// unmatched.
func Evaluate(reg *Registry, p Predicate) (*MatchResult, error) {
	if len(p.Names)+len(p.Types)+len(p.Labels) == 0 {
		return nil, EmptyPredicateError{}
	}

	regs := searchSpace(reg, p.Strategy)
	ignored := ignoredNames(regs, p.IgnoredTypes)

	result := &MatchResult{
		matched: make(map[string]Component),
	}
	for _, name := range p.Names {
		var cs []Component
		for _, r := range regs {
			c, ok := r.Lookup(name)
			if ok && !ignored[name] {
				cs = append(cs, c)
				break
			}
		}
		result.record(fmt.Sprintf("named %q", name), cs)
	}
	for _, t := range p.Types {
		result.record(fmt.Sprintf("of type %s", t), candidatesOf(regs, t, ignored))
	}
	for _, label := range p.Labels {
		var cs []Component
		for _, r := range regs {
			for _, name := range r.NamesLabeled(label) {
				if ignored[name] {
					continue
				}
				c, _ := r.Lookup(name)
				cs = append(cs, c)
			}
		}
		result.record(fmt.Sprintf("labeled %q", label), cs)
	}
	return result, nil
}

func searchSpace(reg *Registry, s Strategy) []*Registry {
	if reg == nil {
		return nil
	}

	var regs []*Registry
	if s != SearchAncestors {
		regs = append(regs, reg)
	}
	if s == SearchCurrent {
		return regs
	}
	for parent, ok := reg.Parent(); ok; parent, ok = parent.Parent() {
		regs = append(regs, parent)
	}
	return regs
}

func ignoredNames(regs []*Registry, types []reflect.Type) map[string]bool {
	ignored := make(map[string]bool)
	for _, t := range types {
		for _, r := range regs {
			for _, name := range r.NamesOf(t) {
				ignored[name] = true
			}
		}
	}
	return ignored
}

func candidatesOf(regs []*Registry, t reflect.Type, ignored map[string]bool) []Component {
	var cs []Component
	for _, r := range regs {
		for _, name := range r.NamesOf(t) {
			if ignored[name] {
				continue
			}
			c, _ := r.Lookup(name)
			cs = append(cs, c)
		}
	}
	return cs
}

// Outcome is the decision produced by matching a [Predicate] against
// a [Registry], along with the reason it was reached.
type Outcome struct {
	Matched bool
	Reason  string
}

// OnPresent matches when every clause the [Predicate] declares finds
// at least one registered candidate.
func OnPresent(reg *Registry, p Predicate) (Outcome, error) {
	result, err := Evaluate(reg, p)
	if err != nil {
		return Outcome{}, err
	}

	if !result.AllMatched() {
		return Outcome{
			Reason: fmt.Sprintf(
				"did not find any components %s",
				strings.Join(result.Unmatched(), " and "),
			),
		}, nil
	}
	return Outcome{
		Matched: true,
		Reason:  fmt.Sprintf("found components %s", strings.Join(result.Matches(), ", ")),
	}, nil
}

// OnAbsent matches when no clause the [Predicate] declares finds a
// registered candidate.
func OnAbsent(reg *Registry, p Predicate) (Outcome, error) {
	result, err := Evaluate(reg, p)
	if err != nil {
		return Outcome{}, err
	}

	if result.AnyMatched() {
		return Outcome{
			Reason: fmt.Sprintf("found components %s", strings.Join(result.Matches(), ", ")),
		}, nil
	}
	return Outcome{
		Matched: true,
		Reason:  fmt.Sprintf("did not find any components %s", describeClauses(p)),
	}, nil
}

// OnSingleCandidate matches when exactly one candidate of the
// declared type is registered, or when multiple are registered and
// exactly one of them is flagged as [Component.Primary]. The
// [Predicate] must declare exactly one type and nothing else.
func OnSingleCandidate(reg *Registry, p Predicate) (Outcome, error) {
	if len(p.Types) != 1 || len(p.Names)+len(p.Labels) != 0 {
		return Outcome{}, InvalidPredicateError{
			Reason: "a single candidate decision requires exactly one type clause",
		}
	}

	result, err := Evaluate(reg, p)
	if err != nil {
		return Outcome{}, err
	}

	if !result.AllMatched() {
		return Outcome{
			Reason: fmt.Sprintf("did not find any components of type %s", p.Types[0]),
		}, nil
	}

	matches := result.Matches()
	if len(matches) == 1 {
		return Outcome{
			Matched: true,
			Reason:  fmt.Sprintf("found a single component %s of type %s", matches[0], p.Types[0]),
		}, nil
	}

	primaries := result.Primaries()
	if len(primaries) == 1 {
		return Outcome{
			Matched: true,
			Reason:  fmt.Sprintf("found a single primary component %s of type %s", primaries[0], p.Types[0]),
		}, nil
	}
	return Outcome{
		Reason: fmt.Sprintf(
			"found multiple components of type %s: %s",
			p.Types[0],
			strings.Join(matches, ", "),
		),
	}, nil
}

func describeClauses(p Predicate) string {
	var clauses []string
	for _, name := range p.Names {
		clauses = append(clauses, fmt.Sprintf("named %q", name))
	}
	for _, t := range p.Types {
		clauses = append(clauses, fmt.Sprintf("of type %s", t))
	}
	for _, label := range p.Labels {
		clauses = append(clauses, fmt.Sprintf("labeled %q", label))
	}
	return strings.Join(clauses, " and ")
}
