// Package strategy defines the closed set of priority-classification
// strategies and their dispatch by name.
package strategy

import (
	"sort"
	"strings"

	"github.com/zerotrustai/modelgate/internal/domain/model"
)

// Name is the enumerated tag of a scoring strategy. The set is closed:
// strategies are registered at construction time and never added
// dynamically.
type Name string

// Known strategy names. Names keep the upstream vocabulary so existing
// clients continue to resolve the same classifiers.
const (
	Basic    Name = "modelo_basico"
	Advanced Name = "modelo_avanzado"
	Edge     Name = "modelo_edge"
)

// Strategy is a pure keyword classifier. Given sanitized input it
// deterministically returns a priority label with no side effects.
type Strategy struct {
	name   Name
	high   []string
	medium []string
}

// Name returns the strategy's registered name.
func (s Strategy) Name() Name {
	return s.name
}

// Classify maps input text to a priority label. Matching is
// case-insensitive substring membership against the strategy's fixed
// keyword sets; anything not matching is low priority.
func (s Strategy) Classify(text string) model.PriorityLabel {
	lowered := strings.ToLower(text)
	for _, kw := range s.high {
		if strings.Contains(lowered, kw) {
			return model.PriorityHigh
		}
	}
	for _, kw := range s.medium {
		if strings.Contains(lowered, kw) {
			return model.PriorityMedium
		}
	}
	return model.PriorityLow
}

// Set holds the closed strategy table built at construction time.
type Set struct {
	byName map[Name]Strategy
	names  []string
}

// NewSet builds the full strategy set. The advanced strategy carries a
// broader vocabulary; the edge variant shares the basic rules but keeps
// a distinct identity for usage accounting.
func NewSet() *Set {
	strategies := []Strategy{
		{
			name:   Basic,
			high:   []string{"urgente", "crítico"},
			medium: []string{"importante"},
		},
		{
			name:   Advanced,
			high:   []string{"emergencia", "urgente", "crítico"},
			medium: []string{"importante", "revisar", "atención"},
		},
		{
			name:   Edge,
			high:   []string{"urgente", "crítico"},
			medium: []string{"importante"},
		},
	}

	s := &Set{byName: make(map[Name]Strategy, len(strategies))}
	for _, st := range strategies {
		s.byName[st.name] = st
		s.names = append(s.names, string(st.name))
	}
	sort.Strings(s.names)
	return s
}

// Resolve looks up a strategy by name. The second return reports
// whether the name is known; fallback policy belongs to the caller.
func (s *Set) Resolve(name Name) (Strategy, bool) {
	st, ok := s.byName[name]
	return st, ok
}

// Names returns the sorted list of registered strategy names.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of registered strategies.
func (s *Set) Len() int {
	return len(s.byName)
}
