package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/model"
	"github.com/sells-group/claims-cli/internal/store"
)

var (
	reviewStatus string
	reviewLimit  int
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Inspect and work the human-review queue",
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List queued review entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.Query(ctx, store.Filter{
			Status: model.ReviewWorkflowStatus(reviewStatus),
			Limit:  reviewLimit,
		})
		if err != nil {
			return eris.Wrap(err, "query review queue")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

var reviewResolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Mark a review entry as resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return eris.Wrapf(err, "invalid entry id %q", args[0])
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Resolve(ctx, id); err != nil {
			return eris.Wrapf(err, "resolve entry %d", id)
		}

		zap.L().Info("review entry resolved", zap.Int64("id", id))
		return nil
	},
}

func init() {
	reviewListCmd.Flags().StringVar(&reviewStatus, "status", string(model.ReviewPending), "filter by workflow status (Pending, Resolved, empty for all)")
	reviewListCmd.Flags().IntVar(&reviewLimit, "limit", 50, "max entries to return")
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewResolveCmd)
	rootCmd.AddCommand(reviewCmd)
}
