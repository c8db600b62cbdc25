package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/claims-cli/internal/model"
	"github.com/sells-group/claims-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the review queue over HTTP for the dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/review", func(w http.ResponseWriter, req *http.Request) {
			filter := store.Filter{
				Status: model.ReviewWorkflowStatus(req.URL.Query().Get("status")),
			}
			if limit := req.URL.Query().Get("limit"); limit != "" {
				n, convErr := strconv.Atoi(limit)
				if convErr != nil {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
					return
				}
				filter.Limit = n
			}

			entries, qErr := st.Query(req.Context(), filter)
			if qErr != nil {
				zap.L().Error("review query failed", zap.Error(qErr))
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "query failed"})
				return
			}
			if entries == nil {
				entries = []model.ReviewEntry{}
			}
			writeJSON(w, http.StatusOK, entries)
		})

		r.Post("/review/{id}/resolve", func(w http.ResponseWriter, req *http.Request) {
			id, convErr := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
			if convErr != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
				return
			}
			if rErr := st.Resolve(req.Context(), id); rErr != nil {
				zap.L().Error("resolve failed", zap.Int64("id", id), zap.Error(rErr))
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "resolve failed"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting review server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
