package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/ingest"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the member search HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Admin-Key"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			count, err := env.Store.MemberCount(req.Context())
			if err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]any{
					"status": "unhealthy", "error": "database unreachable",
				})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"status": "healthy", "members": count,
			})
		})

		r.Post("/query", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Query string `json:"query"`
			}
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Query == "" {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
				return
			}
			writeJSON(w, http.StatusOK, env.Processor.Process(req.Context(), body.Query))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminOnly)

			r.Post("/setup-db", func(w http.ResponseWriter, req *http.Request) {
				if err := env.Store.Migrate(req.Context()); err != nil {
					zap.S().Errorw("migration failed", "error", err)
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "migration failed"})
					return
				}
				writeJSON(w, http.StatusOK, map[string]string{"status": "database ready"})
			})

			r.Post("/ingest-data", func(w http.ResponseWriter, req *http.Request) {
				var body struct {
					Path string `json:"path"`
				}
				if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Path == "" {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "path is required"})
					return
				}
				rows, err := readRows(body.Path)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
					return
				}
				stats, err := ingest.NewPipeline(env.Store).Run(req.Context(), rows)
				if err != nil {
					zap.S().Errorw("ingestion failed", "error", err)
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "ingestion failed"})
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{
					"members":     stats.Members,
					"experiences": stats.Experiences,
					"education":   stats.Education,
					"domains":     stats.Domains,
					"content":     stats.Content,
					"errors":      stats.Errors,
				})
			})
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

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// adminOnly rejects admin requests unless the configured key is presented.
func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if cfg.Server.AdminKey == "" || req.Header.Get("X-Admin-Key") != cfg.Server.AdminKey {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, req)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
