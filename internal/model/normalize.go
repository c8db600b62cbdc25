package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// dateFormats is the ordered list of accepted incident-date layouts. The
// first layout that parses wins. ISO first because that is what the AI
// collaborator is prompted to emit; the slash/dash and month-name forms
// cover what OCR pulls off scanned forms.
var dateFormats = []string{
	"2006-01-02",
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// currencyReplacer strips currency symbols and grouping separators before
// amount parsing.
var currencyReplacer = strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "")

// Normalize coerces a raw upstream record into the canonical ClaimRecord.
// It never fails: unparseable amounts become the missing sentinel,
// unparseable dates are marked invalid, and out-of-range confidences are
// clamped. A missing claim_id gets a deterministic timestamp-based one.
func Normalize(raw RawRecord, now time.Time) ClaimRecord {
	rec := ClaimRecord{
		ClaimID:           strings.TrimSpace(raw.ClaimID),
		Summary:           raw.Summary,
		DamageDescription: raw.DamageDescription,
		normalized:        true,
	}
	if rec.ClaimID == "" {
		rec.ClaimID = GenerateClaimID(now)
	}

	rec.Amount = CoerceAmount(raw.Amount)
	rec.IncidentDate, rec.DateState = CoerceDate(raw.IncidentDate)
	rec.Confidence = CoerceConfidence(raw.Confidence)

	return rec
}

// NormalizeRecord re-applies field coercion to an existing record.
// A record that already passed through Normalize is returned unchanged.
func NormalizeRecord(rec ClaimRecord) ClaimRecord {
	if rec.normalized {
		return rec
	}
	rec.Confidence = clamp01(rec.Confidence)
	if rec.DateState == "" {
		if rec.IncidentDate.IsZero() {
			rec.DateState = DateMissing
		} else {
			rec.DateState = DateValid
		}
	}
	if rec.ClaimID == "" {
		rec.ClaimID = GenerateClaimID(time.Now())
	}
	rec.normalized = true
	return rec
}

// CoerceAmount parses an amount that may arrive as a number, a numeric
// string, or a currency-formatted string. Returns nil (the missing
// sentinel) when the value is absent or unparseable, never zero.
func CoerceAmount(v any) *float64 {
	switch a := v.(type) {
	case nil:
		return nil
	case float64:
		return &a
	case float32:
		f := float64(a)
		return &f
	case int:
		f := float64(a)
		return &f
	case int64:
		f := float64(a)
		return &f
	case json.Number:
		f, err := a.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		s := currencyReplacer.Replace(strings.TrimSpace(a))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// CoerceDate tries each accepted layout in order. Empty input is missing;
// present-but-unparseable input is invalid.
func CoerceDate(s string) (time.Time, DateState) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, DateMissing
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, DateValid
		}
	}
	return time.Time{}, DateInvalid
}

// CoerceConfidence accepts numeric confidence input and clamps it into
// [0,1]. Absent or non-numeric confidence defaults to 0 so it can never
// pass the threshold check by accident.
func CoerceConfidence(v any) float64 {
	switch c := v.(type) {
	case float64:
		return clamp01(c)
	case float32:
		return clamp01(float64(c))
	case int:
		return clamp01(float64(c))
	case json.Number:
		f, err := c.Float64()
		if err != nil {
			return 0
		}
		return clamp01(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0
		}
		return clamp01(f)
	default:
		return 0
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
