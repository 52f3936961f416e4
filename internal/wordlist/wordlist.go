package wordlist

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Region is a topical vocabulary for a geographic area
type Region struct {
	Name    string   `yaml:"name"`
	Words   []string `yaml:"words"`
	Dynamic []string `yaml:"dynamic,omitempty"` // regular expressions
}

// WordList is a compiled, read-only vocabulary
type WordList struct {
	Words   []string
	Dynamic []*regexp.Regexp
}

// Compile validates the region's patterns
func (r Region) Compile() (WordList, error) {
	list := WordList{
		Words:   append([]string(nil), r.Words...),
		Dynamic: make([]*regexp.Regexp, 0, len(r.Dynamic)),
	}

	for _, pattern := range r.Dynamic {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return WordList{}, fmt.Errorf("region %s: compile %q: %w", r.Name, pattern, err)
		}
		list.Dynamic = append(list.Dynamic, re)
	}

	return list, nil
}

// Concat joins word lists; earlier lists come first
func Concat(lists ...WordList) WordList {
	var out WordList
	for _, l := range lists {
		out.Words = append(out.Words, l.Words...)
		out.Dynamic = append(out.Dynamic, l.Dynamic...)
	}
	return out
}

// Set holds the known regions by name
type Set struct {
	regions map[string]Region
}

// NewSet creates a set containing the built-in regions
func NewSet() *Set {
	s := &Set{regions: make(map[string]Region)}
	for _, r := range builtinRegions {
		s.regions[r.Name] = r
	}
	return s
}

// Add registers or replaces a region
func (s *Set) Add(r Region) {
	s.regions[strings.ToLower(r.Name)] = r
}

// Names returns the sorted region names
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.regions))
	for name := range s.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup compiles and concatenates the named regions in the given order
func (s *Set) Lookup(names ...string) (WordList, error) {
	lists := make([]WordList, 0, len(names))
	for _, name := range names {
		r, ok := s.regions[strings.ToLower(name)]
		if !ok {
			return WordList{}, fmt.Errorf("unknown region: %s", name)
		}
		list, err := r.Compile()
		if err != nil {
			return WordList{}, err
		}
		lists = append(lists, list)
	}
	return Concat(lists...), nil
}

// LoadFile reads extra regions from a YAML file:
//
//	regions:
//	  - name: zeeland
//	    words: [middelburg, vlissingen]
//	    dynamic: ["^zeeuw"]
func (s *Set) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read word list: %w", err)
	}

	var doc struct {
		Regions []Region `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse word list %s: %w", path, err)
	}

	for _, r := range doc.Regions {
		if r.Name == "" {
			return fmt.Errorf("parse word list %s: region without name", path)
		}
		if _, err := r.Compile(); err != nil {
			return err
		}
		s.Add(r)
	}

	return nil
}

// Trigger returns the compiled gate patterns. A page is only scored when one
// of its tokens matches.
func Trigger() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(triggerPatterns))
	copy(out, triggerPatterns)
	return out
}
