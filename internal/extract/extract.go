// Package extract turns raw OCR text into the semi-structured shape the
// pipeline consumes: key/value pairs where the document had form-like
// lines, the remaining free text, and a confidence estimate. The estimate
// is a heuristic; the rule engine treats it as untrusted either way.
package extract

import (
	"regexp"
	"strings"
)

// Result is the extraction collaborator's output.
type Result struct {
	Structured   map[string]string `json:"structured"`
	Unstructured string            `json:"unstructured"`
	Confidence   float64           `json:"confidence"`
}

// kvLine matches form-style "Label: value" lines.
var kvLine = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9 _/-]{1,40}?)\s*[:=]\s*(.+?)\s*$`)

// Parse splits OCR output into structured key/value pairs and free text.
// Confidence is lowered for empty or handwriting-flagged scans.
func Parse(text string) Result {
	res := Result{Structured: make(map[string]string)}

	var free []string
	for _, line := range strings.Split(text, "\n") {
		if m := kvLine.FindStringSubmatch(line); m != nil {
			key := strings.ToLower(strings.TrimSpace(m[1]))
			key = strings.ReplaceAll(key, " ", "_")
			res.Structured[key] = strings.TrimSpace(m[2])
			continue
		}
		if strings.TrimSpace(line) != "" {
			free = append(free, line)
		}
	}
	res.Unstructured = strings.Join(free, "\n")

	switch {
	case strings.TrimSpace(text) == "":
		res.Confidence = 0.0
	case strings.Contains(strings.ToLower(text), "handwritten"):
		res.Confidence = 0.85
	default:
		res.Confidence = 0.95
	}

	return res
}

var (
	amountPattern = regexp.MustCompile(`(?i)(?:amount|total|claim)\D{0,20}\$?\s*([\d,]+(?:\.\d{1,2})?)`)
	datePattern   = regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|[A-Z][a-z]{2,8} \d{1,2}, \d{4})\b`)
	claimIDLabel  = []string{"claim_id", "claim_number", "claim_no", "policy_number"}
)

// FallbackFields pulls claim fields out of an extraction result with plain
// pattern matching. Used when the generative-AI step is skipped or fails,
// so the pipeline still produces a routable record.
func (r Result) FallbackFields() (claimID, amount, date string) {
	for _, key := range claimIDLabel {
		if v, ok := r.Structured[key]; ok && v != "" {
			claimID = v
			break
		}
	}
	if v, ok := r.Structured["amount"]; ok {
		amount = v
	} else if v, ok := r.Structured["claim_amount"]; ok {
		amount = v
	} else if m := amountPattern.FindStringSubmatch(r.Unstructured); m != nil {
		amount = m[1]
	}
	if v, ok := r.Structured["incident_date"]; ok {
		date = v
	} else if v, ok := r.Structured["date"]; ok {
		date = v
	} else if m := datePattern.FindStringSubmatch(r.Unstructured); m != nil {
		date = m[1]
	}
	return claimID, amount, date
}
