// Package facts holds the symbol store: a case-insensitive mapping from a
// subject to the single value currently known for it.
package facts

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fact is a known association of the form "subject is value".
type Fact struct {
	Subject string `json:"subject"`
	Value   string `json:"value"`
}

// Normalize lower-cases s and trims surrounding whitespace. Both subjects and
// values pass through it on every read and write.
func Normalize(s string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	symbols map[string]string
}

func NewStore() *Store {
	return &Store{symbols: make(map[string]string)}
}

// Set records subject = value, overwriting any previous value for subject.
func (s *Store) Set(subject, value string) Fact {
	f := Fact{Subject: Normalize(subject), Value: Normalize(value)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols[f.Subject] = f.Value
	return f
}

// Holds reports whether the stored value for subject is exactly value.
func (s *Store) Holds(subject, value string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.symbols[Normalize(subject)]
	return ok && stored == Normalize(value)
}

func (s *Store) Get(subject string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.symbols[Normalize(subject)]
	return v, ok
}

// List returns all facts ordered by subject.
func (s *Store) List() []Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Fact, 0, len(s.symbols))
	for subject, value := range s.symbols {
		list = append(list, Fact{Subject: subject, Value: value})
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Subject < list[j].Subject
	})
	return list
}
