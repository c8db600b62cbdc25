// Package pipeline drives a claim document from ingestion through
// extraction, AI enrichment, normalization, rule evaluation, routing, and
// output persistence. Each document is processed independently; the only
// shared mutable resource is the review store.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/config"
	"github.com/sells-group/claims-cli/internal/extract"
	"github.com/sells-group/claims-cli/internal/ingest"
	"github.com/sells-group/claims-cli/internal/model"
	"github.com/sells-group/claims-cli/internal/ocr"
	"github.com/sells-group/claims-cli/internal/output"
	"github.com/sells-group/claims-cli/internal/rules"
	"github.com/sells-group/claims-cli/internal/store"
	"github.com/sells-group/claims-cli/pkg/genai"
)

// Processor runs the per-document pipeline.
type Processor struct {
	cfg       *config.Config
	store     store.ReviewStore
	extractor ocr.Extractor
	ai        genai.Client
	writer    *output.Writer

	// now is swappable for deterministic tests.
	now func() time.Time
}

// New creates a Processor with all dependencies.
func New(cfg *config.Config, st store.ReviewStore, extractor ocr.Extractor, ai genai.Client, writer *output.Writer) *Processor {
	return &Processor{
		cfg:       cfg,
		store:     st,
		extractor: extractor,
		ai:        ai,
		writer:    writer,
		now:       time.Now,
	}
}

// ProcessFile runs one document end to end and reports its outcome. It
// never panics past its boundary and never aborts siblings: every failure
// becomes a failed ItemResult.
func (p *Processor) ProcessFile(ctx context.Context, path string) (result model.ItemResult) {
	result = model.ItemResult{File: path}
	log := zap.L().With(zap.String("file", path))

	defer func() {
		if r := recover(); r != nil {
			log.Error("pipeline panic", zap.Any("panic", r))
			result.Status = model.OutcomeFailed
			result.Error = eris.Errorf("pipeline panic: %v", r).Error()
		}
	}()

	staged, err := ingest.Stage(path, p.cfg.Ingest.StagingDir)
	if err != nil {
		return failed(result, err)
	}

	text, err := p.extractor.ExtractText(ctx, staged)
	if err != nil {
		return failed(result, err)
	}

	ext := extract.Parse(text)
	log.Debug("extraction complete",
		zap.Int("structured_fields", len(ext.Structured)),
		zap.Int("unstructured_len", len(ext.Unstructured)),
		zap.Float64("confidence", ext.Confidence),
	)

	raw := p.enrich(ctx, ext, log)

	now := p.now()
	rec := model.Normalize(raw, now)
	verdict := rules.Evaluate(rec, p.cfg.Rules, now)

	routeErr := Route(ctx, &rec, verdict, p.store)

	artifact, writeErr := p.writer.WriteClaim(rec, now)
	if writeErr != nil {
		return failed(result, writeErr)
	}
	result.ClaimID = rec.ClaimID
	result.OutputPath = artifact

	if routeErr != nil {
		// The artifact records the claim's status, but the review entry may
		// be lost. Surface it as a failed item so the run summary carries
		// the cause.
		return failed(result, routeErr)
	}

	result.Status = model.OutcomeSuccess
	log.Info("claim processed",
		zap.String("claim_id", rec.ClaimID),
		zap.String("status", string(rec.Status)),
		zap.String("output", artifact),
	)
	return result
}

// enrich runs the generative-AI step and folds its outcome into a raw
// record. Skipped and failed enrichment fall back to pattern extraction so
// the claim still reaches the rule engine.
func (p *Processor) enrich(ctx context.Context, ext extract.Result, log *zap.Logger) model.RawRecord {
	outcome := p.ai.Enrich(ctx, ext.Unstructured)

	switch outcome.Status {
	case genai.StatusOK:
		f := outcome.Fields
		raw := model.RawRecord{
			ClaimID:           f.ClaimID,
			Amount:            f.ClaimAmount,
			IncidentDate:      f.IncidentDate,
			Confidence:        f.Confidence,
			Summary:           f.Summary,
			DamageDescription: f.DamageDescription,
		}
		if raw.Confidence == nil {
			raw.Confidence = ext.Confidence
		}
		fillFromExtraction(&raw, ext)
		return raw

	case genai.StatusSkipped:
		log.Info("genai step skipped", zap.String("reason", outcome.Reason))
	case genai.StatusFailed:
		// A dead AI collaborator degrades the record, it does not kill the
		// item; the low fallback confidence routes it to review instead.
		log.Warn("genai step failed, using pattern fallback", zap.Error(outcome.Err))
	}

	raw := model.RawRecord{Confidence: ext.Confidence}
	fillFromExtraction(&raw, ext)
	return raw
}

// fillFromExtraction backfills blank record fields from the extraction
// collaborator's structured output and pattern fallback.
func fillFromExtraction(raw *model.RawRecord, ext extract.Result) {
	claimID, amount, date := ext.FallbackFields()
	if raw.ClaimID == "" {
		raw.ClaimID = claimID
	}
	if raw.Amount == nil && amount != "" {
		raw.Amount = amount
	}
	if raw.IncidentDate == "" {
		raw.IncidentDate = date
	}
	if raw.Summary == "" {
		raw.Summary = ext.Unstructured
	}
}

func failed(result model.ItemResult, err error) model.ItemResult {
	result.Status = model.OutcomeFailed
	result.Error = err.Error()
	return result
}
