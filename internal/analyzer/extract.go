package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minPhraseLength = 3
	maxPhraseLength = 50
	maxPhraseWords  = 3
)

var stopwords = map[string]struct{}{
	// function words
	"the": {}, "and": {}, "or": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "with": {}, "from": {}, "for": {},
	"by": {}, "to": {}, "of": {}, "in": {}, "on": {}, "at": {}, "as": {}, "an": {}, "a": {},
	"we": {}, "you": {}, "our": {}, "your": {}, "their": {}, "they": {}, "i": {}, "my": {}, "me": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "these": {}, "those": {}, "will": {}, "can": {},
	"also": {}, "etc": {}, "plus": {}, "such": {}, "other": {}, "into": {}, "using": {}, "use": {},
	"who": {}, "what": {}, "which": {}, "not": {}, "but": {}, "if": {}, "all": {}, "any": {},
	// posting and resume filler
	"required": {}, "requirements": {}, "require": {}, "must": {}, "should": {}, "preferred": {},
	"nice": {}, "bonus": {}, "looking": {}, "seeking": {}, "know": {}, "knows": {},
	"experience": {}, "experienced": {}, "education": {}, "skills": {}, "skill": {},
	"knowledge": {}, "understanding": {}, "ability": {}, "capable": {}, "strong": {}, "excellent": {},
	"years": {}, "year": {}, "role": {}, "position": {}, "job": {}, "degree": {},
	"bachelor": {}, "bachelors": {}, "master": {}, "masters": {}, "phd": {},
	"proficiency": {}, "proficient": {}, "familiar": {}, "familiarity": {},
	"good": {}, "basic": {}, "advanced": {}, "intermediate": {}, "expert": {}, "expertise": {},
	"summary": {}, "responsibilities": {}, "qualifications": {}, "team": {}, "work": {},
}

// Extractor finds skill terms in free text using a dictionary scan and
// a short-phrase heuristic.
type Extractor struct {
	dict *Dictionary
}

// NewExtractor returns an extractor over dict. A nil dict uses the default dictionary.
func NewExtractor(dict *Dictionary) *Extractor {
	if dict == nil {
		dict = DefaultDictionary()
	}
	return &Extractor{dict: dict}
}

// Extract returns the skills mentioned in text. Dictionary hits come first,
// ordered by where they appear, followed by heuristic phrases.
func (e *Extractor) Extract(text string) *SkillSet {
	skills := NewSkillSet()

	normalized := Normalize(text)
	for _, name := range e.scanDictionary(normalized) {
		skills.Add(name)
	}

	for _, segment := range Segments(text) {
		phrase := candidatePhrase(segment)
		if phrase == "" {
			continue
		}

		if name, ok := e.dict.Lookup(phrase); ok {
			skills.Add(name)
			continue
		}
		skills.Add(titleCase(phrase))
	}

	return skills
}

type dictionaryHit struct {
	pos  int
	term string
	name string
}

func (e *Extractor) scanDictionary(normalized string) []string {
	if normalized == "" {
		return nil
	}

	hits := make([]dictionaryHit, 0)
	for _, entry := range e.dict.entries {
		if pos := findWhole(normalized, entry.Term); pos >= 0 {
			hits = append(hits, dictionaryHit{pos: pos, term: entry.Term, name: entry.Canonical})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return len(hits[i].term) > len(hits[j].term)
	})

	names := make([]string, 0, len(hits))
	for _, hit := range hits {
		names = append(names, hit.name)
	}
	return names
}

// findWhole returns the byte offset of the first occurrence of term in text
// that is not part of a longer token, or -1.
func findWhole(text, term string) int {
	if term == "" {
		return -1
	}

	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return -1
		}

		start := offset + idx
		end := start + len(term)
		if boundedLeft(text, start) && boundedRight(text, end) {
			return start
		}

		offset = start + 1
	}

	return -1
}

func boundedLeft(text string, start int) bool {
	if start == 0 {
		return true
	}

	prev := rune(text[start-1])
	if isAlnum(prev) {
		return false
	}
	if isJoiner(prev) && start >= 2 && isAlnum(rune(text[start-2])) {
		return false
	}
	return true
}

func boundedRight(text string, end int) bool {
	if end >= len(text) {
		return true
	}

	next := rune(text[end])
	if isAlnum(next) {
		return false
	}
	if isJoiner(next) && end+1 < len(text) && isAlnum(rune(text[end+1])) {
		return false
	}
	return true
}

// isJoiner reports characters that glue alphanumerics into one token, as in "node.js" or "c++".
func isJoiner(r rune) bool {
	return r == '.' || r == '+' || r == '#'
}

// candidatePhrase applies the phrase heuristic to one normalized segment and
// returns the cleaned phrase or "" when it does not look like a skill.
func candidatePhrase(segment string) string {
	length := utf8.RuneCountInString(segment)
	if length < minPhraseLength || length >= maxPhraseLength {
		return ""
	}

	words := strings.Fields(segment)
	if len(words) > maxPhraseWords {
		return ""
	}

	phrase := cleanPhrase(words)
	if utf8.RuneCountInString(phrase) < minPhraseLength || isStopword(phrase) {
		return ""
	}

	return phrase
}

// cleanPhrase trims filler words, bare numbers and stray punctuation from both ends.
func cleanPhrase(words []string) string {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".()-/")
		if w != "" {
			cleaned = append(cleaned, w)
		}
	}

	for len(cleaned) > 0 && isFiller(cleaned[0]) {
		cleaned = cleaned[1:]
	}
	for len(cleaned) > 0 && isFiller(cleaned[len(cleaned)-1]) {
		cleaned = cleaned[:len(cleaned)-1]
	}

	return strings.Join(cleaned, " ")
}

func isFiller(word string) bool {
	return isStopword(word) || Key(word) == "" || isNumber(word)
}

func isStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

func isNumber(word string) bool {
	for _, r := range word {
		if !(r >= '0' && r <= '9') && r != '+' {
			return false
		}
	}
	return word != ""
}
