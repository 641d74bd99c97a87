package resolution

import (
	"fmt"
	"strings"
)

// MatchPolicy decides whether a candidate title answers the query title.
type MatchPolicy interface {
	Matches(candidateTitle, query string) bool
}

// MatchFunc adapts a plain function to MatchPolicy.
type MatchFunc func(candidateTitle, query string) bool

func (f MatchFunc) Matches(candidateTitle, query string) bool {
	return f(candidateTitle, query)
}

var (
	// SubstringMatch accepts a candidate whose lower-cased title contains the lower-cased query.
	SubstringMatch MatchFunc = func(candidateTitle, query string) bool {
		return strings.Contains(strings.ToLower(candidateTitle), strings.ToLower(query))
	}
	// PrefixMatch accepts a candidate whose lower-cased title starts with the lower-cased query.
	PrefixMatch MatchFunc = func(candidateTitle, query string) bool {
		return strings.HasPrefix(strings.ToLower(candidateTitle), strings.ToLower(query))
	}
	// ExactMatch accepts only case-insensitively equal titles.
	ExactMatch MatchFunc = func(candidateTitle, query string) bool {
		return strings.EqualFold(strings.TrimSpace(candidateTitle), strings.TrimSpace(query))
	}
)

// MatchPolicyByName resolves "substring", "prefix" or "exact".
func MatchPolicyByName(name string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "substring":
		return SubstringMatch, nil
	case "prefix":
		return PrefixMatch, nil
	case "exact":
		return ExactMatch, nil
	default:
		return nil, fmt.Errorf("unknown title match policy %q", name)
	}
}

// Selector picks the first eligible candidate in the order the index returned them.
type Selector struct {
	policy MatchPolicy
}

func NewSelector(policy MatchPolicy) *Selector {
	if policy == nil {
		policy = SubstringMatch
	}
	return &Selector{policy: policy}
}

// Select returns the first candidate that is public, has at least one archive
// identifier and whose title matches query. ok is false when none qualifies.
func (s *Selector) Select(candidates []Candidate, query string) (Candidate, bool) {
	for _, c := range candidates {
		if c.EbookAccess != AccessPublic {
			continue
		}
		if len(c.ArchiveIdentifiers) == 0 {
			continue
		}
		if !s.policy.Matches(c.Title, query) {
			continue
		}
		return c, true
	}
	return Candidate{}, false
}
