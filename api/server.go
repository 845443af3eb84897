// Package api provides the HTTP server for HealthLens.
//
// It serves the upload form, an analysis endpoint returning flagged rows
// and recommendations as JSON, and a report endpoint returning the
// assembled PDF as a download.
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/healthlens/healthlens/internal/anomaly"
	"github.com/healthlens/healthlens/internal/config"
	"github.com/healthlens/healthlens/internal/infra"
	"github.com/healthlens/healthlens/internal/ingest"
	"github.com/healthlens/healthlens/internal/report"
	"github.com/healthlens/healthlens/pkg/models"
	"github.com/healthlens/healthlens/pkg/utils"
)

//go:embed templates/*
var templates embed.FS

// Server is the HTTP server.
type Server struct {
	router     chi.Router
	cfg        *config.Config
	reportCfg  report.Config
	limiter    *infra.RateLimiter
	uploadTmpl *template.Template
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	tmpl, err := template.ParseFS(templates, "templates/upload.html")
	if err != nil {
		return nil, fmt.Errorf("parsing upload template: %w", err)
	}

	burst := cfg.API.ReportBurst
	if burst <= 0 {
		burst = 30
	}

	srv := &Server{
		cfg: cfg,
		reportCfg: report.Config{
			Chart: report.ChartConfig{
				PanelWidth:  cfg.Report.ChartWidth,
				PanelHeight: cfg.Report.ChartHeight,
			},
			PDF: report.PDFConfig{
				PageSize: cfg.Report.PageSize,
				Author:   cfg.Report.Author,
			},
		},
		limiter:    infra.NewRateLimiter(burst, time.Minute),
		uploadTmpl: tmpl,
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/", s.handleUploadForm)
	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/report", s.handleReport)
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeResponse is the body of a successful POST /api/v1/analyze.
type AnalyzeResponse struct {
	Rows            int                   `json:"rows"`
	Anomalies       []models.MetricRecord `json:"anomalies"`
	Recommendations []string              `json:"recommendations"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.uploadTmpl.Execute(w, nil); err != nil {
		log.Printf("rendering upload form: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// handleAnalyze parses the uploaded CSV and returns the anomaly subset and
// recommendations as JSON, without building the PDF.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.readDataset(w, r)
	if !ok {
		return
	}

	subset := anomaly.Detect(ds)
	if subset == nil {
		subset = []models.MetricRecord{}
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: AnalyzeResponse{
			Rows:            len(ds),
			Anomalies:       subset,
			Recommendations: anomaly.Recommend(subset),
		},
	})
}

// handleReport runs the full pipeline and responds with the PDF document.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "too many report requests, try again shortly")
		return
	}

	ds, ok := s.readDataset(w, r)
	if !ok {
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = "Anonymous"
	}
	age := utils.ParseAge(r.FormValue("age"), 30)

	res, err := report.Generate(report.Params{Name: name, Age: age, Dataset: ds}, s.reportCfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="health_report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(res.PDF) //nolint:errcheck
}

// readDataset extracts and parses the uploaded CSV from a multipart form.
// On failure it writes the error response and returns ok=false.
func (s *Server) readDataset(w http.ResponseWriter, r *http.Request) (models.Dataset, bool) {
	maxUpload := int64(s.cfg.API.MaxUploadMB)
	if maxUpload <= 0 {
		maxUpload = 10
	}
	if err := r.ParseMultipartForm(maxUpload << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing CSV file upload (field \"file\")")
		return nil, false
	}
	defer file.Close()

	ds, err := ingest.ParseCSV(file)
	if err != nil {
		var schemaErr *ingest.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusBadRequest, schemaErr.Error())
			return nil, false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	return ds, true
}
