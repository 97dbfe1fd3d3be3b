package analyzer

import (
	"reflect"
	"testing"
)

func TestStrengths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		matched      int
		resumeSkills int
		resume       string
		expect       []string
	}{
		{
			name:   "fallback when nothing fires",
			expect: []string{"Candidate profile analyzed"},
		},
		{
			name:         "perfect match",
			matched:      15,
			resumeSkills: 15,
			expect:       []string{"Perfect match - 15 key skills found"},
		},
		{
			name:         "excellent match",
			matched:      10,
			resumeSkills: 12,
			expect:       []string{"Excellent match - 10 required skills present"},
		},
		{
			name:         "strong match",
			matched:      7,
			resumeSkills: 7,
			expect:       []string{"Strong match - 7 core skills align"},
		},
		{
			name:         "generic match with many extra skills",
			matched:      2,
			resumeSkills: 14,
			expect: []string{
				"2 skill(s) match the role requirements",
				"Additional 12 advanced skills beyond requirements",
			},
		},
		{
			name:         "bonus skills and seniority",
			matched:      4,
			resumeSkills: 10,
			resume:       "senior engineer",
			expect: []string{
				"Good foundation with 4 matching skills",
				"6 bonus skills not required",
				"Leadership and architecture experience",
			},
		},
		{
			name:   "led as a whole word",
			resume: "led a team of 5",
			expect: []string{"Leadership and architecture experience"},
		},
		{
			name:   "delivery with a team",
			resume: "built a billing platform with a small team",
			expect: []string{"Proven ability to deliver projects with teams"},
		},
		{
			name:   "delivery without collaboration",
			resume: "built a billing platform alone",
			expect: []string{"Candidate profile analyzed"},
		},
		{
			name:   "certifications",
			resume: "aws certified solutions engineer",
			expect: []string{"Professional certifications"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Strengths(tt.matched, tt.resumeSkills, tt.resume)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		percentage int
		missing    []string
		expect     []string
	}{
		{
			name:       "apply now",
			percentage: 95,
			expect:     []string{"Highly qualified - apply immediately"},
		},
		{
			name:       "excellent fit",
			percentage: 80,
			expect:     []string{"Excellent fit for the role"},
		},
		{
			name:       "strong with one gap",
			percentage: 75,
			missing:    []string{"Docker"},
			expect:     []string{"Strong candidate - highlight key strengths", "Learn: Docker"},
		},
		{
			name:       "moderate with two gaps",
			percentage: 67,
			missing:    []string{"Docker", "Helm"},
			expect:     []string{"Moderate fit - emphasize transferable skills", "Learn: Docker, Helm"},
		},
		{
			name:       "focus on the first three",
			percentage: 30,
			missing:    []string{"Go", "Rust", "gRPC", "Kafka"},
			expect:     []string{"Build experience in required areas", "Focus on: Go, Rust, gRPC"},
		},
		{
			name:       "too many gaps for a focus line",
			percentage: 10,
			missing:    []string{"a", "b", "c", "d", "e", "f"},
			expect:     []string{"Significant skill development recommended"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Recommendations(tt.percentage, tt.missing)
			if !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		percentage, matched, total int
		expect                     string
	}{
		{100, 3, 3, "Outstanding match! 3/3 required skills found. Highly qualified candidate."},
		{80, 4, 5, "Excellent match - 4/5 skills align. Only 1 minor gap(s)."},
		{71, 5, 7, "Strong match - 5 of 7 requirements met. Good fit with room to grow."},
		{67, 2, 3, "Good potential - 2/3 skills present. Build experience in 1 area(s)."},
		{33, 1, 3, "Moderate alignment - 1 matching skill(s). Significant development needed in 2 area(s)."},
		{10, 1, 10, "Limited match - 1 skill(s) align. Consider focused skill development before applying."},
		{0, 0, 2, "Limited skill alignment. Resume and requirements need better alignment."},
		{0, 0, 0, "Limited skill alignment. Resume and requirements need better alignment."},
	}

	for _, tt := range tests {
		if got := Summary(tt.percentage, tt.matched, tt.total); got != tt.expect {
			t.Fatalf("Summary(%d, %d, %d): expected %q, got %q", tt.percentage, tt.matched, tt.total, tt.expect, got)
		}
	}
}
