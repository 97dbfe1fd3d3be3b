package analyzer

import "unicode/utf8"

const (
	DefaultMaxTextLength      = 100000
	DefaultTextPreviewLength  = 1000
	DefaultSkillPreviewLength = 25
)

// Config tunes the analyzer. Zero values select the defaults.
type Config struct {
	// ExtraSkills are added to the built-in dictionary as term -> display name.
	ExtraSkills         map[string]string `mapstructure:"extra-skills"`
	SimilarityThreshold float64           `mapstructure:"similarity-threshold"`
	MaxKeyLength        int               `mapstructure:"max-key-length"`
	MaxTextLength       int               `mapstructure:"max-text-length"`
	TextPreviewLength   int               `mapstructure:"text-preview-length"`
	SkillPreviewLength  int               `mapstructure:"skill-preview-length"`
}

// Report is the result of comparing a resume against a job description.
type Report struct {
	MatchPercentage    int      `json:"matchPercentage"`
	MatchedSkills      []string `json:"matchedSkills"`
	MissingSkills      []string `json:"missingSkills"`
	Strengths          []string `json:"strengths"`
	Recommendations    []string `json:"recommendations"`
	Summary            string   `json:"summary"`
	ResumeText         string   `json:"resumeText"`
	ResumeSkills       []string `json:"resumeSkills"`
	JobDescriptionText string   `json:"jobDescriptionText"`
	JobRequiredSkills  []string `json:"jobRequiredSkills"`
}

// Analyzer runs the extraction, matching and feedback pipeline.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	extractor *Extractor
	matcher   *Matcher

	maxTextLength      int
	textPreviewLength  int
	skillPreviewLength int
}

func New(cfg Config) *Analyzer {
	a := &Analyzer{
		extractor:          NewExtractor(NewDictionary(cfg.ExtraSkills)),
		matcher:            NewMatcher(cfg.SimilarityThreshold, cfg.MaxKeyLength),
		maxTextLength:      cfg.MaxTextLength,
		textPreviewLength:  cfg.TextPreviewLength,
		skillPreviewLength: cfg.SkillPreviewLength,
	}

	if a.maxTextLength <= 0 {
		a.maxTextLength = DefaultMaxTextLength
	}
	if a.textPreviewLength <= 0 {
		a.textPreviewLength = DefaultTextPreviewLength
	}
	if a.skillPreviewLength <= 0 {
		a.skillPreviewLength = DefaultSkillPreviewLength
	}

	return a
}

func (a *Analyzer) Matcher() *Matcher {
	return a.matcher
}

// Analyze compares resumeText against jobText. Empty inputs are valid and
// produce a zero-percent report.
func (a *Analyzer) Analyze(resumeText, jobText string) *Report {
	resumeText = truncateRunes(resumeText, a.maxTextLength)
	jobText = truncateRunes(jobText, a.maxTextLength)

	resumeSkills := a.extractor.Extract(resumeText)
	jobSkills := a.extractor.Extract(jobText)

	score := a.matcher.Score(jobSkills, resumeSkills)
	matched := score.Matched.Names()
	missing := score.Missing.Names()

	return &Report{
		MatchPercentage:    score.Percentage,
		MatchedSkills:      matched,
		MissingSkills:      missing,
		Strengths:          Strengths(len(matched), resumeSkills.Len(), Normalize(resumeText)),
		Recommendations:    Recommendations(score.Percentage, missing),
		Summary:            Summary(score.Percentage, len(matched), jobSkills.Len()),
		ResumeText:         truncateRunes(resumeText, a.textPreviewLength),
		ResumeSkills:       head(resumeSkills.Names(), a.skillPreviewLength),
		JobDescriptionText: truncateRunes(jobText, a.textPreviewLength),
		JobRequiredSkills:  jobSkills.Names(),
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit])
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
