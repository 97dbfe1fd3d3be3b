package analyzer

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(nil)

	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "empty text",
			input:  "",
			expect: []string{},
		},
		{
			name:   "dictionary hits ordered by position",
			input:  "Experience with Node.js and Go",
			expect: []string{"Node.js", "Go"},
		},
		{
			name:   "heuristic phrase appended after dictionary hits",
			input:  "Skills: Kubernetes Operators, Terraform",
			expect: []string{"Kubernetes", "Terraform", "Kubernetes Operators"},
		},
		{
			name:   "bare numbers and filler are not skills",
			input:  "5+ years",
			expect: []string{},
		},
		{
			name:   "abbreviations expand to canonical names",
			input:  "k8s, js, postgres",
			expect: []string{"Kubernetes", "JavaScript", "PostgreSQL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extractor.Extract(tt.input).Names()
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestExtractWordBoundaries(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(nil)

	tests := []struct {
		name    string
		input   string
		present []string
		absent  []string
	}{
		{
			name:    "term inside a longer word",
			input:   "Django developer",
			present: []string{"Django"},
			absent:  []string{"Go"},
		},
		{
			name:    "abbreviation glued by a dot",
			input:   "node.js services",
			present: []string{"Node.js"},
			absent:  []string{"JavaScript"},
		},
		{
			name:    "plus signs belong to the token",
			input:   "modern c++ codebase",
			present: []string{"C++"},
		},
		{
			name:    "sentence final dot is a boundary",
			input:   "We deploy with Docker.",
			present: []string{"Docker"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			skills := extractor.Extract(tt.input)
			for _, name := range tt.present {
				if !skills.Contains(name) {
					t.Fatalf("expected %q in %v", name, skills.Names())
				}
			}
			for _, name := range tt.absent {
				if skills.Contains(name) {
					t.Fatalf("did not expect %q in %v", name, skills.Names())
				}
			}
		})
	}
}

func TestExtractCustomDictionary(t *testing.T) {
	t.Parallel()

	dict := NewDictionary(map[string]string{
		"Temporal": "",
		"sqlc":     "sqlc",
	})
	extractor := NewExtractor(dict)

	skills := extractor.Extract("workflows on temporal with generated sqlc queries and more text here")
	if !skills.Contains("Temporal") || !skills.Contains("sqlc") {
		t.Fatalf("expected custom terms, got %v", skills.Names())
	}

	if got := skills.Names()[0]; got != "Temporal" {
		t.Fatalf("expected title cased fallback name, got %q", got)
	}
}

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"k8s":               "Kubernetes",
		"csharp":            "C#",
		"golang":            "Go",
		"cicd":              "CI/CD",
		"styled-components": "Styled-Components",
		"ruby on rails":     "Ruby On Rails",
		"unknown.tool":      "Unknown.Tool",
	}

	for term, expect := range tests {
		if got := CanonicalName(term); got != expect {
			t.Fatalf("canonical name of %q: expected %q, got %q", term, expect, got)
		}
	}
}

func TestSkillSet(t *testing.T) {
	t.Parallel()

	set := NewSkillSet("React", "react", " REACT ", "Node.js", "")

	if set.Len() != 2 {
		t.Fatalf("expected 2 skills, got %d (%v)", set.Len(), set.Names())
	}

	if got := set.Names(); !reflect.DeepEqual(got, []string{"React", "Node.js"}) {
		t.Fatalf("expected first seen forms, got %v", got)
	}

	if set.Add("NODEJS") {
		t.Fatalf("expected duplicate key to be rejected")
	}

	if got := set.Sorted(); !reflect.DeepEqual(got, []string{"Node.js", "React"}) {
		t.Fatalf("unexpected sorted order %v", got)
	}

	var empty *SkillSet
	if empty.Len() != 0 || len(empty.Names()) != 0 || empty.Contains("x") {
		t.Fatalf("nil skill set should behave as empty")
	}
}
