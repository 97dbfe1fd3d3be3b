package analyzer

import (
	"math"
	"strings"
)

const (
	// DefaultSimilarityThreshold is the normalized edit-distance similarity a pair
	// of keys must exceed to be treated as the same skill.
	DefaultSimilarityThreshold = 0.75
	// DefaultMaxKeyLength caps comparison keys before running edit distance.
	DefaultMaxKeyLength = 64
)

// Matcher decides skill equivalence and scores skill sets.
type Matcher struct {
	threshold    float64
	maxKeyLength int
}

// Score is the outcome of comparing job skills against resume skills.
// Matched and Missing partition the job skills.
type Score struct {
	Matched    *SkillSet
	Missing    *SkillSet
	Percentage int
}

// NewMatcher returns a matcher. Non-positive arguments select the defaults.
func NewMatcher(threshold float64, maxKeyLength int) *Matcher {
	if threshold <= 0 || threshold >= 1 {
		threshold = DefaultSimilarityThreshold
	}
	if maxKeyLength <= 0 {
		maxKeyLength = DefaultMaxKeyLength
	}

	return &Matcher{threshold: threshold, maxKeyLength: maxKeyLength}
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Equivalent reports whether a and b denote the same skill. It is symmetric.
func (m *Matcher) Equivalent(a, b string) bool {
	ka, kb := Key(a), Key(b)
	if ka == kb {
		return true
	}

	if ka == "" || kb == "" {
		return false
	}

	longer, shorter := ka, kb
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}

	if strings.Contains(longer, shorter) {
		return true
	}

	return m.similarity(longer, shorter) > m.threshold
}

// Score classifies every job skill as matched when any resume skill is equivalent.
func (m *Matcher) Score(job, resume *SkillSet) Score {
	result := Score{
		Matched: NewSkillSet(),
		Missing: NewSkillSet(),
	}

	resumeNames := resume.Names()
	for _, skill := range job.Names() {
		if m.anyEquivalent(skill, resumeNames) {
			result.Matched.Add(skill)
			continue
		}
		result.Missing.Add(skill)
	}

	result.Percentage = Percentage(result.Matched.Len(), job.Len())
	return result
}

func (m *Matcher) anyEquivalent(skill string, candidates []string) bool {
	for _, candidate := range candidates {
		if m.Equivalent(skill, candidate) {
			return true
		}
	}
	return false
}

// similarity expects len(longer) >= len(shorter).
func (m *Matcher) similarity(longer, shorter string) float64 {
	if len(longer) > m.maxKeyLength {
		longer = longer[:m.maxKeyLength]
	}
	if len(shorter) > m.maxKeyLength {
		shorter = shorter[:m.maxKeyLength]
	}

	if len(longer) == 0 {
		return 1
	}

	return 1 - float64(Levenshtein(longer, shorter))/float64(len(longer))
}

// Percentage returns round(100*matched/total), or 0 when total is 0.
func Percentage(matched, total int) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(100 * float64(matched) / float64(total)))
}

// Levenshtein returns the single-character insert/delete/substitute edit
// distance between a and b, compared byte-wise.
func Levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			above := row[j]
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}

	return row[len(b)]
}
