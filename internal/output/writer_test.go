package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/claims-cli/internal/model"
)

var writerNow = time.Date(2023, 10, 20, 14, 30, 5, 0, time.UTC)

func TestWriteClaim(t *testing.T) {
	amount := 2500.0
	rec := model.ClaimRecord{
		ClaimID:          "CLM-2023-00123",
		Amount:           &amount,
		Confidence:       0.95,
		ValidationErrors: []string{},
		Status:           model.StatusReadyForApproval,
	}

	w := NewWriter(t.TempDir())
	path, err := w.WriteClaim(rec, writerNow)
	require.NoError(t, err)
	assert.Equal(t, "processed_CLM-2023-00123_20231020_143005.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.ClaimRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, rec.ClaimID, got.ClaimID)
	assert.Equal(t, model.StatusReadyForApproval, got.Status)
	require.NotNil(t, got.Amount)
	assert.InDelta(t, 2500.0, *got.Amount, 0.001)
}

func TestWriteClaim_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "deep", "processed")
	w := NewWriter(dir)

	path, err := w.WriteClaim(model.ClaimRecord{ClaimID: "temp_1"}, writerNow)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestWriteSummary(t *testing.T) {
	summary := &model.RunSummary{
		RunID:     "run-1",
		StartedAt: writerNow,
		Successes: 2,
		Failures:  1,
		Items: []model.ItemResult{
			{File: "a.txt", Status: model.OutcomeSuccess},
			{File: "b.txt", Status: model.OutcomeFailed, Error: "extraction failed"},
			{File: "c.txt", Status: model.OutcomeSuccess},
		},
	}

	w := NewWriter(t.TempDir())
	path, err := w.WriteSummary(summary)
	require.NoError(t, err)
	assert.Equal(t, "summary_20231020_143005.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.RunSummary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 2, got.Successes)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "extraction failed", got.Items[1].Error)
}
