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
	"golang.org/x/sync/errgroup"

	"github.com/ekslens/leadgen-cli/internal/config"
	"github.com/ekslens/leadgen-cli/internal/model"
	"github.com/ekslens/leadgen-cli/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the job query server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx, cfg.Industry.Default)
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env, cfg.Search),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			return srv.Shutdown(cmd.Context())
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// startRequest is the JSON body of POST /api/search/start. The source
// toggles default to enabled when omitted.
type startRequest struct {
	Cities      []string `json:"cities"`
	Keywords    []string `json:"keywords"`
	MaxSearches int      `json:"max_searches"`
	UseSerp     *bool    `json:"use_serp"`
	UsePlaces   *bool    `json:"use_places"`
}

// newRouter builds the HTTP API. All state reads go through the job
// controller and the store; the session worker is started and stopped
// here but never awaited.
func newRouter(env *appEnv, limits config.SearchConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			snap := env.ctrl.Snapshot()
			resp := map[string]any{
				"is_running":     snap.Running,
				"progress":       snap.Progress,
				"status_message": snap.StatusMessage,
				"industry":       env.orch.IndustryID(),
			}
			// Store counts are best-effort; a store hiccup must not
			// break status polling.
			if counts, err := env.store.CountsByStatus(r.Context()); err == nil {
				total := 0
				for _, n := range counts {
					total += n
				}
				resp["total_leads"] = total
				resp["leads_by_status"] = counts
			} else {
				zap.L().Warn("status counts failed", zap.Error(err))
			}
			writeJSON(w, http.StatusOK, resp)
		})

		r.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
			snap := env.ctrl.Snapshot()
			writeJSON(w, http.StatusOK, map[string]any{
				"logs":       env.ctrl.Logs(),
				"is_running": snap.Running,
				"progress":   snap.Progress,
			})
		})

		r.Get("/results", func(w http.ResponseWriter, r *http.Request) {
			report := env.ctrl.LastResults()
			if report == nil {
				writeError(w, http.StatusNotFound, "no results available")
				return
			}
			writeJSON(w, http.StatusOK, report)
		})

		r.Post("/search/start", func(w http.ResponseWriter, r *http.Request) {
			var req startRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if len(req.Cities) == 0 {
				writeError(w, http.StatusBadRequest, "at least one city is required")
				return
			}
			if len(req.Cities) > limits.MaxCities {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("max %d cities allowed", limits.MaxCities))
				return
			}
			if len(req.Keywords) > limits.MaxKeywords {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("max %d keywords allowed", limits.MaxKeywords))
				return
			}
			if req.MaxSearches > limits.MaxSearches {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("max %d searches allowed", limits.MaxSearches))
				return
			}

			sources := make(map[string]bool)
			if req.UseSerp != nil {
				sources["serpapi"] = *req.UseSerp
			}
			if req.UsePlaces != nil {
				sources["places"] = *req.UsePlaces
			}

			err := env.orch.Start(r.Context(), session.Request{
				Cities:      req.Cities,
				Keywords:    req.Keywords,
				MaxSearches: req.MaxSearches,
				Sources:     sources,
			})
			if err != nil {
				if eris.Is(err, session.ErrJobRunning) {
					writeError(w, http.StatusConflict, "a search is already in progress")
					return
				}
				writeError(w, http.StatusInternalServerError, "could not start search")
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
		})

		r.Post("/search/stop", func(w http.ResponseWriter, r *http.Request) {
			if !env.ctrl.Running() {
				writeError(w, http.StatusConflict, "no search in progress")
				return
			}
			env.ctrl.RequestStop()
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "stopping"})
		})

		r.Get("/leads", func(w http.ResponseWriter, r *http.Request) {
			limit := 50
			if raw := r.URL.Query().Get("limit"); raw != "" {
				n, err := strconv.Atoi(raw)
				if err != nil || n <= 0 {
					writeError(w, http.StatusBadRequest, "invalid limit")
					return
				}
				limit = n
			}
			status := model.LeadStatus(r.URL.Query().Get("status"))

			var leads []model.Lead
			var err error
			if term := r.URL.Query().Get("search"); term != "" {
				leads, err = env.store.SearchLeads(r.Context(), term, limit)
			} else {
				leads, err = env.store.ListRecent(r.Context(), limit, status)
			}
			if err != nil {
				zap.L().Error("list leads failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "could not list leads")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"leads": leads, "count": len(leads)})
		})

		r.Patch("/leads/{id}/status", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Status model.LeadStatus `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if !req.Status.Valid() {
				writeError(w, http.StatusBadRequest, "invalid status")
				return
			}
			id := chi.URLParam(r, "id")
			if err := env.store.UpdateLeadStatus(r.Context(), id, req.Status); err != nil {
				writeError(w, http.StatusNotFound, "lead not found")
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(req.Status)})
		})

		r.Get("/leads/{id}/messages", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")
			messages, err := env.store.ListMessages(r.Context(), id)
			if err != nil {
				zap.L().Error("list messages failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "could not list messages")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"messages": messages, "count": len(messages)})
		})

		r.Get("/industries", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"industries": env.orch.Registry().IDs(),
				"active":     env.orch.IndustryID(),
			})
		})

		r.Post("/industry", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Industry string `json:"industry"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}
			if !env.orch.Registry().Known(req.Industry) {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown industry %q", req.Industry))
				return
			}
			policy, err := env.orch.SetIndustry(req.Industry)
			if err != nil {
				writeError(w, http.StatusConflict, "cannot switch industry while a search is running")
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"industry": req.Industry, "name": policy.Name()})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
