package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/resume-match/internal/postings"
)

type minimumMatchFilter struct {
	disabled bool
	reason   string
	minimum  int
}

// NewMinimumMatch creates a filter that removes postings below the configured match percentage.
func NewMinimumMatch() Filter {
	return &minimumMatchFilter{}
}

func (f *minimumMatchFilter) Name() string { return "minimum_match" }

func (f *minimumMatchFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *minimumMatchFilter) IsEnabled() bool { return !f.disabled }

func (f *minimumMatchFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumMatch
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum match must be between 0 and 100, got %d", f.minimum)
	}
	return nil
}

func (f *minimumMatchFilter) Apply(_ context.Context, deps Deps, p *postings.Postings) (*postings.Postings, Step, error) {
	initial := p.Len()
	if f.minimum == 0 {
		return p, Step{Initial: initial, Dropped: 0, Left: p.Len()}, nil
	}

	removed := p.Remove(func(posting *postings.Posting) bool {
		return posting.Percentage() < f.minimum
	})
	if len(removed) > 0 {
		deps.Logger.Info("excluding postings below minimum match",
			zap.Int("minimum_match", f.minimum),
			zap.Strings("excluded_postings", removed),
			zap.Int("postings_left", p.Len()),
		)
	}

	return p, Step{Initial: initial, Dropped: len(removed), Left: p.Len()}, nil
}

func (f *minimumMatchFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_match": strconv.Itoa(f.minimum)},
	}
}
