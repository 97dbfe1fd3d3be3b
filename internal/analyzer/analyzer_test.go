package analyzer

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAnalyzeScenarios(t *testing.T) {
	t.Parallel()

	a := New(Config{})

	tests := []struct {
		name       string
		resume     string
		job        string
		percentage int
		matched    []string
		missing    []string
		strength   string
	}{
		{
			name:       "partial match with leadership",
			resume:     "Experienced Angular and TypeScript developer, led a team of 5",
			job:        "Looking for Angular, TypeScript, and Docker experience",
			percentage: 67,
			matched:    []string{"Angular", "TypeScript"},
			missing:    []string{"Docker"},
			strength:   "Leadership and architecture experience",
		},
		{
			name:       "empty resume",
			resume:     "",
			job:        "Must know Python and SQL",
			percentage: 0,
			matched:    []string{},
			missing:    []string{"Python", "SQL"},
		},
		{
			name:       "fuzzy abbreviations",
			resume:     "Expert in reactjs and nodejs",
			job:        "React and Node.js required",
			percentage: 100,
			matched:    []string{"React", "Node.js"},
			missing:    []string{},
		},
		{
			name:       "empty job description",
			resume:     "Go, Kubernetes, Terraform",
			job:        "",
			percentage: 0,
			matched:    []string{},
			missing:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := a.Analyze(tt.resume, tt.job)

			if report.MatchPercentage != tt.percentage {
				t.Fatalf("expected %d percent, got %d", tt.percentage, report.MatchPercentage)
			}

			if !reflect.DeepEqual(report.MatchedSkills, tt.matched) {
				t.Fatalf("expected matched %v, got %v", tt.matched, report.MatchedSkills)
			}

			if !reflect.DeepEqual(report.MissingSkills, tt.missing) {
				t.Fatalf("expected missing %v, got %v", tt.missing, report.MissingSkills)
			}

			if tt.strength != "" && !containsString(report.Strengths, tt.strength) {
				t.Fatalf("expected strength %q in %v", tt.strength, report.Strengths)
			}

			if report.Summary == "" || len(report.Recommendations) == 0 || len(report.Strengths) == 0 {
				t.Fatalf("expected feedback to be filled, got %+v", report)
			}
		})
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	t.Parallel()

	a := New(Config{})

	pairs := [][2]string{
		{"Senior Go engineer: Kubernetes, Terraform, AWS, PostgreSQL", "Go, Rust, k8s, GCP; CI/CD pipelines | Helm charts"},
		{"Java Spring Boot, Hibernate, Maven", "Kotlin or Java, Spring, Gradle, Docker, Jenkins"},
		{"!!!", "???"},
		{"Python pandas numpy airflow spark", "Data engineering: Spark, Airflow, dbt, Snowflake"},
	}

	for _, pair := range pairs {
		first := a.Analyze(pair[0], pair[1])
		second := a.Analyze(pair[0], pair[1])

		if !reflect.DeepEqual(first, second) {
			t.Fatalf("analysis of %q is not deterministic", pair)
		}

		if first.MatchPercentage < 0 || first.MatchPercentage > 100 {
			t.Fatalf("percentage out of bounds: %d", first.MatchPercentage)
		}

		job := NewSkillSet(first.JobRequiredSkills...)
		if len(first.MatchedSkills)+len(first.MissingSkills) != job.Len() {
			t.Fatalf("matched and missing do not cover job skills: %+v", first)
		}

		matched := NewSkillSet(first.MatchedSkills...)
		for _, name := range first.MissingSkills {
			if matched.Contains(name) {
				t.Fatalf("%q is both matched and missing", name)
			}
			if !job.Contains(name) {
				t.Fatalf("missing skill %q is not a job skill", name)
			}
		}
		for _, name := range first.MatchedSkills {
			if !job.Contains(name) {
				t.Fatalf("matched skill %q is not a job skill", name)
			}
		}

		if job.Len() == 0 && first.MatchPercentage != 0 {
			t.Fatalf("expected zero percent without job skills, got %d", first.MatchPercentage)
		}

		if want := Percentage(len(first.MatchedSkills), job.Len()); first.MatchPercentage != want {
			t.Fatalf("expected %d percent, got %d", want, first.MatchPercentage)
		}
	}
}

func TestAnalyzePreviews(t *testing.T) {
	t.Parallel()

	terms := []string{
		"python", "django", "flask", "java", "kotlin", "scala", "spring", "maven", "gradle", "ruby",
		"rails", "rust", "php", "laravel", "swift", "docker", "kubernetes", "helm", "terraform", "ansible",
		"linux", "bash", "git", "nginx", "grafana", "jenkins", "redis", "mongodb", "mysql", "graphql",
	}
	resume := strings.Join(terms, ", ") + "\n" + strings.Repeat("é", 2000)

	report := New(Config{}).Analyze(resume, "Docker")

	if got := len(report.ResumeSkills); got != DefaultSkillPreviewLength {
		t.Fatalf("expected %d resume skills in preview, got %d", DefaultSkillPreviewLength, got)
	}

	if got := utf8.RuneCountInString(report.ResumeText); got != DefaultTextPreviewLength {
		t.Fatalf("expected %d runes of resume preview, got %d", DefaultTextPreviewLength, got)
	}

	if report.JobDescriptionText != "Docker" {
		t.Fatalf("expected short job text to be echoed, got %q", report.JobDescriptionText)
	}

	if report.MatchPercentage != 100 {
		t.Fatalf("expected full match, got %d", report.MatchPercentage)
	}
}

func TestAnalyzeTruncatesInput(t *testing.T) {
	t.Parallel()

	a := New(Config{MaxTextLength: 20})

	report := a.Analyze("Go and Rust engineer with Kubernetes", "Kubernetes")
	if report.MatchPercentage != 0 {
		t.Fatalf("expected skills past the limit to be ignored, got %d percent", report.MatchPercentage)
	}
}

func containsString(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
