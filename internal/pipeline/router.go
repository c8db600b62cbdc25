package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/model"
	"github.com/sells-group/claims-cli/internal/resilience"
	"github.com/sells-group/claims-cli/internal/rules"
	"github.com/sells-group/claims-cli/internal/store"
)

// Route assigns the claim's terminal status from a verdict and, when the
// verdict failed, queues the claim for human review. The status and
// validation errors are always set on the record, even when the store
// write fails; a non-nil return is a storage failure the caller must
// surface, never a validation outcome.
func Route(ctx context.Context, rec *model.ClaimRecord, verdict rules.Verdict, st store.ReviewStore) error {
	rec.ValidationErrors = verdict.Errors

	if verdict.Passed() {
		rec.Status = model.StatusReadyForApproval
		zap.L().Info("claim passed validation",
			zap.String("claim_id", rec.ClaimID),
		)
		return nil
	}

	rec.Status = model.StatusReview
	zap.L().Warn("claim flagged for review",
		zap.String("claim_id", rec.ClaimID),
		zap.Strings("errors", verdict.Errors),
	)

	entry := model.ReviewEntry{
		ClaimID:      rec.ClaimID,
		Amount:       rec.Amount,
		IncidentDate: reviewDate(rec),
		Errors:       verdict.Errors,
		Status:       model.ReviewPending,
	}

	id, err := resilience.DoVal(ctx, resilience.StoreRetryConfig(), func(ctx context.Context) (int64, error) {
		return st.Insert(ctx, entry)
	})
	if err != nil {
		zap.L().Error("review queue write failed, entry may be lost",
			zap.String("claim_id", rec.ClaimID),
			zap.Error(err),
		)
		return err
	}

	zap.L().Info("claim queued for review",
		zap.String("claim_id", rec.ClaimID),
		zap.Int64("entry_id", id),
		zap.Int("errors", len(verdict.Errors)),
	)
	return nil
}

func reviewDate(rec *model.ClaimRecord) string {
	if rec.DateState == model.DateValid {
		return rec.IncidentDate.Format(time.DateOnly)
	}
	return ""
}
