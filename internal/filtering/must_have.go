package filtering

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/postings"
)

type mustHaveFilter struct {
	disabled bool
	reason   string
	skills   []string
}

// NewMustHave creates a filter that keeps only postings whose matched skills
// cover every configured must-have skill.
func NewMustHave() Filter {
	return &mustHaveFilter{}
}

func (f *mustHaveFilter) Name() string { return "must_have" }

func (f *mustHaveFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *mustHaveFilter) IsEnabled() bool { return !f.disabled }

func (f *mustHaveFilter) Validate(cfg *Config) error {
	f.skills = nil
	if cfg == nil {
		return nil
	}
	for _, skill := range cfg.MustHave {
		if skill = strings.TrimSpace(skill); skill != "" {
			f.skills = append(f.skills, skill)
		}
	}
	return nil
}

func (f *mustHaveFilter) Apply(_ context.Context, deps Deps, p *postings.Postings) (*postings.Postings, Step, error) {
	initial := p.Len()
	if len(f.skills) == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}
	if deps.Matcher == nil {
		return p, Step{}, errors.New("skill matcher is required")
	}

	removed := p.Remove(func(posting *postings.Posting) bool {
		if posting.Report == nil {
			return true
		}
		for _, skill := range f.skills {
			if !covered(deps, skill, posting.Report.MatchedSkills) {
				return true
			}
		}
		return false
	})
	if len(removed) > 0 {
		deps.Logger.Info("excluding postings without must-have skills",
			zap.Strings("must_have", f.skills),
			zap.Strings("excluded_postings", removed),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func covered(deps Deps, skill string, matched []string) bool {
	for _, m := range matched {
		if deps.Matcher.Equivalent(skill, m) {
			return true
		}
	}
	return false
}

func (f *mustHaveFilter) Status() Status {
	details := map[string]string{}
	if len(f.skills) > 0 {
		details["skills"] = strings.Join(f.skills, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
