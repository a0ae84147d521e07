package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/subrecon/internal/model"
	"github.com/sells-group/subrecon/internal/pipeline"
	"github.com/sells-group/subrecon/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the research jobs API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		maxWorkers := cfg.Server.MaxWorkers
		if maxWorkers <= 0 {
			maxWorkers = 4
		}

		srv := &jobServer{
			pipeline: p,
			store:    st,
			workers:  make(chan struct{}, maxWorkers),
			baseCtx:  ctx,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.routes(),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type jobServer struct {
	pipeline *pipeline.Pipeline
	store    store.Store
	workers  chan struct{}
	baseCtx  context.Context
}

func (s *jobServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/research", s.handleCreate)
		r.Get("/research/{id}", s.handleGet)
		r.Get("/research", s.handleList)
	})

	return r
}

func (s *jobServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.ResearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.store.CreateJob(r.Context(), req)
	if err != nil {
		zap.L().Error("create job failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	go s.runJob(job)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     job.ID,
		"status": string(job.Status),
	})
}

// runJob executes the pipeline for one job under the worker limit. The
// server's base context governs the run so in-flight jobs stop on shutdown.
func (s *jobServer) runJob(job *model.ResearchJob) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	ctx := s.baseCtx
	if err := s.store.UpdateJobStatus(ctx, job.ID, model.JobRunning); err != nil {
		zap.L().Error("update job status failed", zap.String("job", job.ID), zap.Error(err))
	}

	result, err := s.pipeline.Execute(ctx, job.Request)
	if err != nil {
		zap.L().Error("job failed", zap.String("job", job.ID), zap.Error(err))
		if ferr := s.store.FailJob(ctx, job.ID, err.Error()); ferr != nil {
			zap.L().Error("record job failure failed", zap.String("job", job.ID), zap.Error(ferr))
		}
		return
	}

	if err := s.store.CompleteJob(ctx, job.ID, result); err != nil {
		zap.L().Error("persist job result failed", zap.String("job", job.ID), zap.Error(err))
		return
	}

	zap.L().Info("job complete",
		zap.String("job", job.ID),
		zap.Int("profiles", len(result.Profiles)),
	)
}

func (s *jobServer) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		if eris.Is(err, store.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		zap.L().Error("get job failed", zap.String("job", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (s *jobServer) handleList(w http.ResponseWriter, r *http.Request) {
	filter := store.JobFilter{
		Status: model.JobStatus(r.URL.Query().Get("status")),
	}

	jobs, err := s.store.ListJobs(r.Context(), filter)
	if err != nil {
		zap.L().Error("list jobs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
