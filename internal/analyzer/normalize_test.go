package analyzer

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "empty", input: "", expect: ""},
		{name: "punctuation becomes space", input: "Hello, World!", expect: "hello world"},
		{name: "keeps skill punctuation", input: "  C#   and C++ ", expect: "c# and c++"},
		{name: "keeps dots slashes and parens", input: "Node.js/React (TS)", expect: "node.js/react (ts)"},
		{name: "collapses mixed whitespace", input: "a\tb\n\nc", expect: "a b c"},
		{name: "drops non ascii letters", input: "Café", expect: "caf"},
		{name: "hyphen kept", input: "Styled-Components", expect: "styled-components"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Senior Go/Rust engineer; 10+ years!!",
		"  Ünïcödé   and\ttabs\r\n",
		"CI/CD, k8s, AWS (EKS) & GCP",
		"#### +++ ...",
	}

	for _, input := range inputs {
		once := Normalize(input)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize is not idempotent for %q: %q vs %q", input, once, twice)
		}
	}
}

func TestSegments(t *testing.T) {
	t.Parallel()

	got := Segments("Go, Rust; Python | SQL\nDocker:  ,,")
	expect := []string{"go", "rust", "python", "sql", "docker"}

	if !reflect.DeepEqual(got, expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}

	if empty := Segments(""); len(empty) != 0 {
		t.Fatalf("expected no segments, got %v", empty)
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Node.js":    "nodejs",
		"CI/CD":      "cicd",
		"C#":         "c",
		"  Vue 3  ":  "vue3",
		"---":        "",
		"PostgreSQL": "postgresql",
	}

	for input, expect := range tests {
		if got := Key(input); got != expect {
			t.Fatalf("key of %q: expected %q, got %q", input, expect, got)
		}
	}
}
