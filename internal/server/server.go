// Package server exposes the review dashboard: a small JSON API over
// the manifests and audio clips in an output directory, plus an
// embedded browser UI for paging through sections and vocabulary.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/lbreton/ecoute/internal/audio"
	"github.com/lbreton/ecoute/internal/logging"
	"github.com/lbreton/ecoute/internal/manifest"
	"github.com/lbreton/ecoute/internal/vocab"
)

//go:embed web/index.html
var webFS embed.FS

const (
	defaultPageSize  = 10
	maxPageSize      = 100
	maxUploadBytes   = 512 << 20 // 512MB, lecture recordings run long
	manifestSuffix   = "_processed.json"
	shutdownTimeout  = 10 * time.Second
	readHeaderLimit  = 15 * time.Second
	writeTimeoutHTTP = 5 * time.Minute // processing requests block until done
)

// ProcessFunc runs the study packet pipeline on an input media file and
// returns the resulting manifest.
type ProcessFunc func(ctx context.Context, inputPath string) (*manifest.Manifest, error)

// Config holds the server settings.
type Config struct {
	Addr      string
	OutputDir string
	UploadDir string
}

// Server serves the review API and dashboard for one output directory.
type Server struct {
	cfg     Config
	process ProcessFunc
	logger  *logging.Logger
	store   *vocab.Store
}

func New(cfg Config, process ProcessFunc, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(cfg.OutputDir, "uploads")
	}
	return &Server{
		cfg:     cfg,
		process: process,
		logger:  logger,
		store:   vocab.NewStore(filepath.Join(cfg.OutputDir, vocab.CacheFileName)),
	}
}

// Router builds the HTTP handler with all dashboard routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         3600,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Post("/process", s.handleProcess)
		r.Get("/manifests", s.handleListManifests)
		r.Get("/manifests/{name}", s.handleGetManifest)
		r.Get("/manifests/{name}/sections", s.handleSections)
		r.Get("/manifests/{name}/vocab", s.handleManifestVocab)
		r.Get("/vocab/global", s.handleGlobalVocab)
		r.Post("/vocab/global/update", s.handleGlobalVocabUpdate)
	})

	fileServer := http.FileServer(http.Dir(s.cfg.OutputDir))
	r.Handle("/audio/*", http.StripPrefix("/audio/", fileServer))

	r.Get("/", s.handleIndex)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderLimit,
		WriteTimeout:      writeTimeoutHTTP,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("review dashboard listening", "addr", s.cfg.Addr, "outputDir", s.cfg.OutputDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Infow("shutting down review dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(webFS, "web/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "dashboard page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	if !audio.IsMediaFile(header.Filename) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported media type: %s", filepath.Ext(header.Filename)))
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0755); err != nil {
		writeError(w, http.StatusInternalServerError, "upload directory unavailable")
		return
	}

	// uuid names prevent collisions between concurrent uploads
	dstName := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	dstPath := filepath.Join(s.cfg.UploadDir, dstName)

	dst, err := os.Create(dstPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(dstPath)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	s.logger.Infow("upload stored", "originalName", header.Filename, "path", dstPath, "bytes", written)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"path":         dstPath,
		"originalName": header.Filename,
		"size":         written,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if s.process == nil {
		writeError(w, http.StatusServiceUnavailable, "processing is not configured on this server")
		return
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "json body with non-empty path required")
		return
	}

	m, err := s.process(r.Context(), req.Path)
	if err != nil {
		s.logger.Errorw("processing failed", "path", req.Path, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleListManifests(w http.ResponseWriter, r *http.Request) {
	names, err := manifest.List(s.cfg.OutputDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleGetManifest(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadManifest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadManifest(w, r)
	if !ok {
		return
	}

	sections := m.Sections
	if parseBool(r.URL.Query().Get("hideEnglish")) {
		hidden := make([]manifest.Section, len(sections))
		copy(hidden, sections)
		for i := range hidden {
			hidden[i].EnglishText = ""
			hidden[i].EnglishAudioFilePath = ""
		}
		sections = hidden
	}

	page, pageSize := parsePagination(r)
	start, end := pageBounds(len(sections), page, pageSize)

	writeJSON(w, http.StatusOK, listPage{
		Items:    sections[start:end],
		Total:    len(sections),
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < len(sections),
	})
}

func (s *Server) handleManifestVocab(w http.ResponseWriter, r *http.Request) {
	m, ok := s.loadManifest(w, r)
	if !ok {
		return
	}

	texts := make([]string, 0, len(m.Sections))
	for _, section := range m.Sections {
		texts = append(texts, section.FrenchText)
	}
	excluded := vocab.ParseFilterWords(r.URL.Query().Get("filter"))
	ranked := vocab.Extract(texts, excluded).Ranked()

	page, pageSize := parsePagination(r)
	start, end := pageBounds(len(ranked), page, pageSize)

	writeJSON(w, http.StatusOK, listPage{
		Items:    ranked[start:end],
		Total:    len(ranked),
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < len(ranked),
	})
}

func (s *Server) handleGlobalVocab(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	ranked := vocab.RankedFromMap(counts)

	page, pageSize := parsePagination(r)
	start, end := pageBounds(len(ranked), page, pageSize)

	writeJSON(w, http.StatusOK, listPage{
		Items:    ranked[start:end],
		Total:    len(ranked),
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < len(ranked),
	})
}

func (s *Server) handleGlobalVocabUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Manifest string `json:"manifest"`
		Filter   string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Manifest == "" {
		writeError(w, http.StatusBadRequest, "json body with non-empty manifest required")
		return
	}

	path, ok := s.manifestPath(req.Manifest)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid manifest name")
		return
	}
	m, err := manifest.Load(path)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	texts := make([]string, 0, len(m.Sections))
	for _, section := range m.Sections {
		texts = append(texts, section.FrenchText)
	}
	counter := vocab.Extract(texts, vocab.ParseFilterWords(req.Filter))

	merged, err := s.store.Update(counter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Infow("global vocabulary updated", "manifest", req.Manifest, "newWords", counter.Len(), "totalWords", len(merged))
	writeJSON(w, http.StatusOK, vocab.RankedFromMap(merged))
}

// loadManifest resolves the {name} path parameter and loads the
// manifest, writing the error response itself on failure.
func (s *Server) loadManifest(w http.ResponseWriter, r *http.Request) (*manifest.Manifest, bool) {
	name := chi.URLParam(r, "name")
	path, ok := s.manifestPath(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid manifest name")
		return nil, false
	}

	m, err := manifest.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeError(w, http.StatusNotFound, "manifest not found: "+name)
		} else {
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return m, true
}

// manifestPath validates a client-supplied manifest name and resolves
// it inside the output directory. Rejects anything that is not a bare
// manifest file name, including path traversal attempts.
func (s *Server) manifestPath(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, manifestSuffix) {
		return "", false
	}
	return filepath.Join(s.cfg.OutputDir, name), true
}

func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v >= 1 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}
	return page, pageSize
}

func pageBounds(total, page, pageSize int) (start, end int) {
	start = (page - 1) * pageSize
	if start > total {
		start = total
	}
	end = start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
