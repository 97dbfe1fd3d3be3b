package postings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spigell/resume-match/internal/analyzer"
	"github.com/spigell/resume-match/internal/extract"
)

const maxTitleLength = 120

type Postings struct {
	Items []*Posting
}

// Posting is a single job description loaded from disk together with its analysis.
type Posting struct {
	ID     string           `json:"id"`
	Path   string           `json:"path,omitempty"`
	Title  string           `json:"title,omitempty"`
	Text   string           `json:"-"`
	Report *analyzer.Report `json:"report,omitempty"`
}

type ExcludedPostings struct {
	Items []*ExcludedPosting
}

type ExcludedPosting struct {
	ID              string
	Title           string
	MatchPercentage int
	ExcludedAt      time.Time
}

// Load reads every path with the file-to-text extractor.
// The posting id is the file name, the title is the first non-empty line.
func Load(paths []string) (*Postings, error) {
	p := &Postings{}
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		text, err := extract.File(path)
		if err != nil {
			return nil, fmt.Errorf("loading posting %s: %w", path, err)
		}

		id := filepath.Base(path)
		if seen[id] {
			return nil, fmt.Errorf("duplicate posting id %q (%s)", id, path)
		}
		seen[id] = true

		p.Items = append(p.Items, &Posting{
			ID:    id,
			Path:  path,
			Title: titleOf(text, id),
			Text:  text,
		})
	}
	return p, nil
}

func titleOf(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if runes := []rune(line); len(runes) > maxTitleLength {
			line = string(runes[:maxTitleLength])
		}
		return line
	}
	return fallback
}

// Analyze fills the report of every posting against the same resume.
func (p *Postings) Analyze(a *analyzer.Analyzer, resumeText string) {
	for _, posting := range p.Items {
		posting.Report = a.Analyze(resumeText, posting.Text)
	}
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByID(id string) *Posting {
	for _, posting := range p.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

// Percentage returns 0 for postings that were not analysed yet.
func (p *Posting) Percentage() int {
	if p.Report == nil {
		return 0
	}
	return p.Report.MatchPercentage
}

// SortByMatch orders postings by match percentage, best first. Ties keep id order.
func (p *Postings) SortByMatch() {
	sort.SliceStable(p.Items, func(i, j int) bool {
		a, b := p.Items[i], p.Items[j]
		if a.Percentage() != b.Percentage() {
			return a.Percentage() > b.Percentage()
		}
		return a.ID < b.ID
	})
}

// Exclude removes postings with the given ids and returns the removed ids.
func (p *Postings) Exclude(ids []string) []string {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	return p.Remove(func(posting *Posting) bool { return drop[posting.ID] })
}

// Remove drops every posting the predicate selects and returns their ids. Order is preserved.
func (p *Postings) Remove(selected func(*Posting) bool) []string {
	var removed []string
	kept := p.Items[:0]
	for _, posting := range p.Items {
		if selected(posting) {
			removed = append(removed, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	p.Items = kept
	return removed
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (p *Postings) ToExcluded() *ExcludedPostings {
	excluded := &ExcludedPostings{}
	now := time.Now().UTC()
	for _, posting := range p.Items {
		excluded.Items = append(excluded.Items, &ExcludedPosting{
			ID:              posting.ID,
			Title:           posting.Title,
			MatchPercentage: posting.Percentage(),
			ExcludedAt:      now,
		})
	}
	return excluded
}

// ExcludedFromFile reads an exclude file. A missing or empty file yields an empty list.
func ExcludedFromFile(path string) (*ExcludedPostings, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ExcludedPostings{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPostings{}, nil
	}

	var excluded ExcludedPostings
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedPostings) Append(s *ExcludedPostings) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedPostings) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, posting := range e.Items {
		ids = append(ids, posting.ID)
	}
	return ids
}

func (e *ExcludedPostings) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// Report groups postings by match band for terminal output.
func (p *Postings) Report() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range p.Items {
		key := band(posting.Percentage())
		entry := map[string]string{
			"id":    posting.ID,
			"title": posting.Title,
			"match": fmt.Sprintf("%d%%", posting.Percentage()),
		}
		if posting.Report != nil {
			entry["missing"] = strings.Join(posting.Report.MissingSkills, ", ")
			entry["summary"] = posting.Report.Summary
		}
		report[key] = append(report[key], entry)
	}
	return report
}

func band(percentage int) string {
	switch {
	case percentage >= 80:
		return "strong (80%+)"
	case percentage >= 50:
		return "moderate (50-79%)"
	default:
		return "weak (<50%)"
	}
}
