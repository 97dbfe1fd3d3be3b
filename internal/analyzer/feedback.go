package analyzer

import (
	"fmt"
	"strings"
)

const fallbackStrength = "Candidate profile analyzed"

var (
	leadershipFragments = []string{"lead", "senior", "architect"}
	leadershipWords     = []string{"led", "managed", "mentored", "supervised"}
	deliveryWords       = []string{"built", "developed", "created", "delivered", "shipped", "launched"}
	collaborationWords  = []string{"team", "project"}
	certificationWords  = []string{"certification", "certified", "certificate"}
)

// Strengths returns the strength lines for a resume. resumeText must be normalized.
func Strengths(matched, resumeSkillCount int, resumeText string) []string {
	strengths := make([]string, 0, 5)

	switch {
	case matched >= 15:
		strengths = append(strengths, fmt.Sprintf("Perfect match - %d key skills found", matched))
	case matched >= 10:
		strengths = append(strengths, fmt.Sprintf("Excellent match - %d required skills present", matched))
	case matched >= 7:
		strengths = append(strengths, fmt.Sprintf("Strong match - %d core skills align", matched))
	case matched >= 4:
		strengths = append(strengths, fmt.Sprintf("Good foundation with %d matching skills", matched))
	case matched > 0:
		strengths = append(strengths, fmt.Sprintf("%d skill(s) match the role requirements", matched))
	}

	extra := resumeSkillCount - matched
	switch {
	case extra > 10:
		strengths = append(strengths, fmt.Sprintf("Additional %d advanced skills beyond requirements", extra))
	case extra > 5:
		strengths = append(strengths, fmt.Sprintf("%d bonus skills not required", extra))
	}

	if containsAny(resumeText, leadershipFragments) || containsAnyWord(resumeText, leadershipWords) {
		strengths = append(strengths, "Leadership and architecture experience")
	}

	if containsAnyWord(resumeText, deliveryWords) && containsAny(resumeText, collaborationWords) {
		strengths = append(strengths, "Proven ability to deliver projects with teams")
	}

	if containsAny(resumeText, certificationWords) {
		strengths = append(strengths, "Professional certifications")
	}

	if len(strengths) == 0 {
		return []string{fallbackStrength}
	}
	return strengths
}

// Recommendations returns advice lines keyed by percentage and the missing skills.
func Recommendations(percentage int, missing []string) []string {
	recs := make([]string, 0, 2)

	switch {
	case percentage >= 90:
		recs = append(recs, "Highly qualified - apply immediately")
	case percentage >= 80:
		recs = append(recs, "Excellent fit for the role")
	case percentage >= 70:
		recs = append(recs, "Strong candidate - highlight key strengths")
	case percentage >= 50:
		recs = append(recs, "Moderate fit - emphasize transferable skills")
	case percentage >= 30:
		recs = append(recs, "Build experience in required areas")
	default:
		recs = append(recs, "Significant skill development recommended")
	}

	switch n := len(missing); {
	case n > 0 && n <= 2:
		recs = append(recs, "Learn: "+strings.Join(missing, ", "))
	case n > 2 && n <= 5:
		recs = append(recs, "Focus on: "+strings.Join(missing[:3], ", "))
	}

	return recs
}

// Summary returns the one-sentence verdict for the report.
func Summary(percentage, matched, total int) string {
	gaps := total - matched

	switch {
	case percentage >= 90:
		return fmt.Sprintf("Outstanding match! %d/%d required skills found. Highly qualified candidate.", matched, total)
	case percentage >= 80:
		return fmt.Sprintf("Excellent match - %d/%d skills align. Only %d minor gap(s).", matched, total, gaps)
	case percentage >= 70:
		return fmt.Sprintf("Strong match - %d of %d requirements met. Good fit with room to grow.", matched, total)
	case percentage >= 50:
		return fmt.Sprintf("Good potential - %d/%d skills present. Build experience in %d area(s).", matched, total, gaps)
	case percentage >= 30:
		return fmt.Sprintf("Moderate alignment - %d matching skill(s). Significant development needed in %d area(s).", matched, gaps)
	case percentage > 0:
		return fmt.Sprintf("Limited match - %d skill(s) align. Consider focused skill development before applying.", matched)
	default:
		return "Limited skill alignment. Resume and requirements need better alignment."
	}
}

func containsAny(text string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(text, f) {
			return true
		}
	}
	return false
}

func containsAnyWord(text string, words []string) bool {
	for _, w := range words {
		if findWhole(text, w) >= 0 {
			return true
		}
	}
	return false
}
