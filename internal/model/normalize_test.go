package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceAmount_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"float", 2500.0, 2500.0, true},
		{"int", 1000, 1000.0, true},
		{"plain string", "2500.50", 2500.50, true},
		{"currency string", "$1,234.56", 1234.56, true},
		{"euro string", "€2 500", 2500.0, true},
		{"zero is a real amount", 0.0, 0.0, true},
		{"empty string", "", 0, false},
		{"garbage string", "twelve dollars", 0, false},
		{"nil", nil, 0, false},
		{"unsupported type", []string{"x"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceAmount(tt.input)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}
}

func TestCoerceDate_Formats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		state DateState
		want  string
	}{
		{"iso", "2023-10-15", DateValid, "2023-10-15"},
		{"slash", "10/15/2023", DateValid, "2023-10-15"},
		{"dash", "10-15-2023", DateValid, "2023-10-15"},
		{"two digit year", "10/15/23", DateValid, "2023-10-15"},
		{"month name", "Oct 15, 2023", DateValid, "2023-10-15"},
		{"full month name", "October 15, 2023", DateValid, "2023-10-15"},
		{"missing", "", DateMissing, ""},
		{"whitespace only", "   ", DateMissing, ""},
		{"unparseable", "sometime last week", DateInvalid, ""},
		{"partial", "15th of October", DateInvalid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, state := CoerceDate(tt.input)
			assert.Equal(t, tt.state, state)
			if tt.state == DateValid {
				assert.Equal(t, tt.want, got.Format(time.DateOnly))
			}
		})
	}
}

func TestCoerceConfidence_ClampsIntoRange(t *testing.T) {
	assert.Equal(t, 0.95, CoerceConfidence(0.95))
	assert.Equal(t, 1.0, CoerceConfidence(1.5))
	assert.Equal(t, 0.0, CoerceConfidence(-0.2))
	assert.Equal(t, 0.7, CoerceConfidence("0.7"))
	assert.Equal(t, 0.0, CoerceConfidence(nil))
	assert.Equal(t, 0.0, CoerceConfidence("high"))
}

func TestCoerceConfidence_Idempotent(t *testing.T) {
	once := CoerceConfidence(1.5)
	twice := CoerceConfidence(once)
	assert.Equal(t, once, twice)
	assert.GreaterOrEqual(t, twice, 0.0)
	assert.LessOrEqual(t, twice, 1.0)
}

func TestNormalize_FullRecord(t *testing.T) {
	now := time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)
	rec := Normalize(RawRecord{
		ClaimID:           "CLM-001",
		Amount:            "$2,500.00",
		IncidentDate:      "2023-10-15",
		Confidence:        0.95,
		Summary:           "rear-end collision",
		DamageDescription: "bumper damage",
	}, now)

	assert.Equal(t, "CLM-001", rec.ClaimID)
	require.True(t, rec.HasAmount())
	assert.Equal(t, 2500.0, rec.AmountValue())
	assert.Equal(t, DateValid, rec.DateState)
	assert.Equal(t, "2023-10-15", rec.IncidentDate.Format(time.DateOnly))
	assert.Equal(t, 0.95, rec.Confidence)
	assert.True(t, rec.Normalized())
}

func TestNormalize_MissingFieldsGetSentinels(t *testing.T) {
	now := time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)
	rec := Normalize(RawRecord{}, now)

	assert.Equal(t, "temp_1697803200", rec.ClaimID)
	assert.False(t, rec.HasAmount())
	assert.Equal(t, DateMissing, rec.DateState)
	assert.Equal(t, 0.0, rec.Confidence) // absent confidence never passes
}

func TestNormalize_UnparseableAmountIsMissingNotZero(t *testing.T) {
	rec := Normalize(RawRecord{Amount: "N/A"}, time.Now())
	assert.False(t, rec.HasAmount())
	assert.Equal(t, 0.0, rec.AmountValue())
}

func TestNormalize_ClaimIDDeterministic(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := Normalize(RawRecord{}, now)
	b := Normalize(RawRecord{}, now)
	assert.Equal(t, a.ClaimID, b.ClaimID)
}

func TestNormalizeRecord_NoOpWhenAlreadyNormalized(t *testing.T) {
	now := time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)
	rec := Normalize(RawRecord{Amount: 100.0, IncidentDate: "2023-10-15", Confidence: 0.9}, now)

	again := NormalizeRecord(rec)
	assert.Equal(t, rec, again)
}

func TestNormalizeRecord_RepairsHandRolledRecord(t *testing.T) {
	rec := NormalizeRecord(ClaimRecord{Confidence: 2.0})
	assert.Equal(t, 1.0, rec.Confidence)
	assert.Equal(t, DateMissing, rec.DateState)
	assert.NotEmpty(t, rec.ClaimID)
	assert.True(t, rec.Normalized())
}
