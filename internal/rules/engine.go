// Package rules implements the business-rule checks that decide whether a
// normalized claim can be auto-approved. Evaluation is pure: no clocks other
// than the one passed in, no I/O, and a fixed error order so identical
// inputs always produce identical verdicts.
package rules

import (
	"fmt"
	"time"

	"github.com/sells-group/claims-cli/internal/model"
)

// Config holds the thresholds applied by Evaluate.
type Config struct {
	MaxClaimAmount      float64 `yaml:"max_claim_amount" mapstructure:"max_claim_amount"`
	MinClaimAmount      float64 `yaml:"min_claim_amount" mapstructure:"min_claim_amount"`
	FilingWindowDays    int     `yaml:"filing_window_days" mapstructure:"filing_window_days"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold" mapstructure:"confidence_threshold"`
}

// Default returns the stock thresholds.
func Default() Config {
	return Config{
		MaxClaimAmount:      100000.0,
		MinClaimAmount:      0.0,
		FilingWindowDays:    30,
		ConfidenceThreshold: 0.8,
	}
}

// Verdict is the outcome of rule evaluation. An empty Errors slice means
// the claim passed every check.
type Verdict struct {
	Errors []string `json:"errors"`
}

// Passed reports whether no rule was violated.
func (v Verdict) Passed() bool {
	return len(v.Errors) == 0
}

// Evaluate runs every check against the record and accumulates violations
// in a fixed order: amount presence, amount ceiling, amount floor, date
// presence/validity, filing window, confidence. It never short-circuits.
// An unparseable or missing date skips the filing-window check so a single
// bad field is not reported twice.
func Evaluate(rec model.ClaimRecord, cfg Config, now time.Time) Verdict {
	var errs []string

	switch {
	case !rec.HasAmount():
		errs = append(errs, "Missing claim amount")
	default:
		amount := rec.AmountValue()
		if amount > cfg.MaxClaimAmount {
			errs = append(errs, fmt.Sprintf("Amount exceeds limit (%.2f > %.2f)", amount, cfg.MaxClaimAmount))
		}
		if amount < cfg.MinClaimAmount {
			errs = append(errs, fmt.Sprintf("Amount below minimum (%.2f < %.2f)", amount, cfg.MinClaimAmount))
		}
	}

	switch rec.DateState {
	case model.DateMissing:
		errs = append(errs, "Missing incident date")
	case model.DateInvalid:
		errs = append(errs, "Invalid date format")
	case model.DateValid:
		window := time.Duration(cfg.FilingWindowDays) * 24 * time.Hour
		if rec.IncidentDate.Before(now.Add(-window)) || rec.IncidentDate.After(now) {
			errs = append(errs, "Incident date outside filing window")
		}
	}

	if rec.Confidence < cfg.ConfidenceThreshold {
		errs = append(errs, fmt.Sprintf("Low model confidence: %.2f", rec.Confidence))
	}

	return Verdict{Errors: errs}
}
