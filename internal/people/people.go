// Package people holds the set of persons an expense file may name.
package people

import "strings"

// DefaultPersons is the person set used when none is configured.
var DefaultPersons = []string{"a", "b"}

// Service provides lookup over the configured persons.
type Service struct {
	persons []string
	byName  map[string]struct{}
}

// NewService creates a Service from person names. Names are trimmed and
// lower-cased; duplicates and blanks are dropped and first-seen order kept.
func NewService(persons []string) *Service {
	s := &Service{byName: make(map[string]struct{}, len(persons))}
	for _, p := range persons {
		p = Normalize(p)
		if p == "" {
			continue
		}
		if _, dup := s.byName[p]; dup {
			continue
		}
		s.byName[p] = struct{}{}
		s.persons = append(s.persons, p)
	}
	return s
}

// Default returns a Service over DefaultPersons.
func Default() *Service {
	return NewService(DefaultPersons)
}

// Normalize returns the canonical form of a person name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// All returns all persons in configured order.
func (s *Service) All() []string {
	out := make([]string, len(s.persons))
	copy(out, s.persons)
	return out
}

// Exists reports whether name is a configured person.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[Normalize(name)]
	return ok
}

// Others returns every configured person except name.
func (s *Service) Others(name string) []string {
	name = Normalize(name)
	var result []string
	for _, p := range s.persons {
		if p != name {
			result = append(result, p)
		}
	}
	return result
}
