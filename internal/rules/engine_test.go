package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claims-cli/internal/model"
)

var testNow = time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)

func validRecord(t *testing.T) model.ClaimRecord {
	t.Helper()
	return model.Normalize(model.RawRecord{
		ClaimID:      "CLM-100",
		Amount:       2500.0,
		IncidentDate: "2023-10-15",
		Confidence:   0.95,
	}, testNow)
}

func TestEvaluate_AllChecksPass(t *testing.T) {
	v := Evaluate(validRecord(t), Default(), testNow)
	assert.True(t, v.Passed())
	assert.Empty(t, v.Errors)
}

func TestEvaluate_AmountExceedsLimit(t *testing.T) {
	rec := validRecord(t)
	amount := 200000.0
	rec.Amount = &amount

	v := Evaluate(rec, Default(), testNow)
	require.Len(t, v.Errors, 1)
	// The message carries both the actual and the configured limit.
	assert.Contains(t, v.Errors[0], "Amount exceeds limit")
	assert.Contains(t, v.Errors[0], "200000.00")
	assert.Contains(t, v.Errors[0], "100000.00")
}

func TestEvaluate_AmountBelowMinimum(t *testing.T) {
	rec := validRecord(t)
	amount := -50.0
	rec.Amount = &amount

	v := Evaluate(rec, Default(), testNow)
	require.Len(t, v.Errors, 1)
	assert.Contains(t, v.Errors[0], "Amount below minimum")
	assert.Contains(t, v.Errors[0], "-50.00")
}

func TestEvaluate_MissingAmount(t *testing.T) {
	rec := validRecord(t)
	rec.Amount = nil

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{"Missing claim amount"}, v.Errors)
}

func TestEvaluate_MissingDateNeverAlsoOutsideWindow(t *testing.T) {
	rec := model.Normalize(model.RawRecord{
		Amount:     500.0,
		Confidence: 0.95,
	}, testNow)

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{"Missing incident date"}, v.Errors)
}

func TestEvaluate_InvalidDateDistinctFromMissing(t *testing.T) {
	rec := model.Normalize(model.RawRecord{
		Amount:       500.0,
		IncidentDate: "last tuesday",
		Confidence:   0.95,
	}, testNow)

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{"Invalid date format"}, v.Errors)
}

func TestEvaluate_DateOutsideFilingWindow(t *testing.T) {
	rec := model.Normalize(model.RawRecord{
		Amount:       500.0,
		IncidentDate: "2023-01-01",
		Confidence:   0.95,
	}, testNow)

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{"Incident date outside filing window"}, v.Errors)
}

func TestEvaluate_FutureDateOutsideWindow(t *testing.T) {
	rec := model.Normalize(model.RawRecord{
		Amount:       500.0,
		IncidentDate: "2024-01-01",
		Confidence:   0.95,
	}, testNow)

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{"Incident date outside filing window"}, v.Errors)
}

func TestEvaluate_LowConfidenceMessage(t *testing.T) {
	rec := validRecord(t)
	rec.Confidence = 0.5

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{"Low model confidence: 0.50"}, v.Errors)
}

func TestEvaluate_ErrorsAccumulateInFixedOrder(t *testing.T) {
	// Missing date plus low confidence: date errors come before the
	// confidence error.
	rec := model.Normalize(model.RawRecord{
		Amount:     500.0,
		Confidence: 0.5,
	}, testNow)

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{
		"Missing incident date",
		"Low model confidence: 0.50",
	}, v.Errors)
}

func TestEvaluate_NoShortCircuit(t *testing.T) {
	rec := model.Normalize(model.RawRecord{
		Amount:       "not a number",
		IncidentDate: "garbage",
		Confidence:   0.1,
	}, testNow)

	v := Evaluate(rec, Default(), testNow)
	assert.Equal(t, []string{
		"Missing claim amount",
		"Invalid date format",
		"Low model confidence: 0.10",
	}, v.Errors)
}

func TestEvaluate_Deterministic(t *testing.T) {
	rec := validRecord(t)
	rec.Confidence = 0.2
	a := Evaluate(rec, Default(), testNow)
	b := Evaluate(rec, Default(), testNow)
	assert.Equal(t, a, b)
}

func TestEvaluate_ConfigurableThresholds(t *testing.T) {
	cfg := Config{
		MaxClaimAmount:      1000,
		MinClaimAmount:      100,
		FilingWindowDays:    90,
		ConfidenceThreshold: 0.5,
	}

	rec := model.Normalize(model.RawRecord{
		Amount:       50.0,
		IncidentDate: "2023-08-01", // within 90 days of testNow
		Confidence:   0.6,
	}, testNow)

	v := Evaluate(rec, cfg, testNow)
	assert.Equal(t, []string{"Amount below minimum (50.00 < 100.00)"}, v.Errors)
}
