package config

import (
	"fmt"
	"time"

	"github.com/reoring/schemaui/i18n"
	"github.com/reoring/schemaui/validate"
)

// Validate checks loaded Settings for semantic errors beyond what Load
// catches. Returns one readable error string per issue.
func Validate(s *Settings) []string {
	var errs []string

	if s.TickRate != "" {
		d, err := time.ParseDuration(s.TickRate)
		switch {
		case err != nil:
			errs = append(errs, fmt.Sprintf("tick_rate: invalid duration %q", s.TickRate))
		case d <= 0:
			errs = append(errs, fmt.Sprintf("tick_rate: must be positive, got %s", d))
		}
	}

	if s.Language != "" && !i18n.Supported(s.Language) {
		errs = append(errs, fmt.Sprintf("language: unsupported language %q (supported: en, ja)", s.Language))
	}

	p := s.Palette
	for _, step := range []struct {
		name string
		neg  bool
	}{
		{"palette.integer_step", p.IntegerStep != nil && *p.IntegerStep < 0},
		{"palette.integer_fast_step", p.IntegerFastStep != nil && *p.IntegerFastStep < 0},
		{"palette.number_step", p.NumberStep != nil && *p.NumberStep < 0},
		{"palette.number_fast_step", p.NumberFastStep != nil && *p.NumberFastStep < 0},
	} {
		if step.neg {
			errs = append(errs, step.name+": must not be negative")
		}
	}

	if _, err := validate.ParseDraft(s.Validation.Draft); err != nil {
		errs = append(errs, fmt.Sprintf("validation.draft: unknown draft %q", s.Validation.Draft))
	}

	return errs
}
