package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/config"
	"github.com/sells-group/claims-cli/internal/ingest"
	"github.com/sells-group/claims-cli/internal/ocr"
	"github.com/sells-group/claims-cli/internal/output"
	"github.com/sells-group/claims-cli/internal/pipeline"
	"github.com/sells-group/claims-cli/pkg/genai"
)

var processCmd = &cobra.Command{
	Use:   "process <path>",
	Short: "Process a claim document or a directory of documents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		inputs, err := ingest.ListInputs(args[0])
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			zap.L().Info("no processable documents found", zap.String("path", args[0]))
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		extractor, err := ocr.NewExtractor(cfg.OCR)
		if err != nil {
			return err
		}

		aiClient := genai.NewClient(genai.Config{
			Key:       cfg.GenAI.Key,
			Model:     cfg.GenAI.Model,
			MaxTokens: cfg.GenAI.MaxTokens,
			Prompt:    config.LoadPrompts(cfg.GenAI.PromptsPath),
			RPS:       cfg.GenAI.RPS,
		})

		writer := output.NewWriter(cfg.Output.Dir)
		proc := pipeline.New(cfg, st, extractor, aiClient, writer)

		summary := proc.RunBatch(ctx, inputs)

		summaryPath, err := writer.WriteSummary(summary)
		if err != nil {
			return eris.Wrap(err, "write run summary")
		}
		zap.L().Info("run summary written", zap.String("path", summaryPath))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}
