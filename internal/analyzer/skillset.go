package analyzer

import (
	"encoding/json"
	"sort"
	"strings"
)

// SkillSet is a collection of skill terms unique by comparison key.
// The first canonical form added for a key is kept.
type SkillSet struct {
	keys  []string
	names map[string]string
}

// NewSkillSet returns a set holding the provided names.
func NewSkillSet(names ...string) *SkillSet {
	s := &SkillSet{names: make(map[string]string, len(names))}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add inserts name unless its comparison key is empty or already present.
// It reports whether the set changed.
func (s *SkillSet) Add(name string) bool {
	name = strings.TrimSpace(name)
	key := Key(name)
	if key == "" {
		return false
	}

	if s.names == nil {
		s.names = make(map[string]string)
	}

	if _, ok := s.names[key]; ok {
		return false
	}

	s.names[key] = name
	s.keys = append(s.keys, key)
	return true
}

func (s *SkillSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[Key(name)]
	return ok
}

func (s *SkillSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Names returns canonical names in insertion order.
func (s *SkillSet) Names() []string {
	if s == nil {
		return []string{}
	}

	out := make([]string, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.names[key])
	}
	return out
}

// Sorted returns canonical names ordered case-insensitively.
func (s *SkillSet) Sorted() []string {
	out := s.Names()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func (s *SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	*s = SkillSet{}
	for _, name := range names {
		s.Add(name)
	}
	return nil
}
