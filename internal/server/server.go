// Package server exposes offer processing and profile management over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/javajack/xloffer"
	"github.com/javajack/xloffer/internal/metrics"
	"github.com/javajack/xloffer/internal/profilestore"
	"github.com/javajack/xloffer/internal/sequence"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProfileStore is the profile persistence the server needs.
type ProfileStore interface {
	xloffer.ProfileSource
	List() ([]*xloffer.PriceProfile, error)
	Import(r io.Reader) (*xloffer.PriceProfile, error)
	Clone(sourceID, name string) (*xloffer.PriceProfile, error)
	Delete(id string) error
}

// Server handles the HTTP API.
type Server struct {
	transformer *xloffer.Transformer
	profiles    ProfileStore
	sequencer   sequence.Sequencer
	logger      *zap.Logger
	maxUpload   int64
	now         func() time.Time
	tracer      trace.Tracer
}

// New wires a Server. maxUploadMB bounds request bodies.
func New(tx *xloffer.Transformer, profiles ProfileStore, seq sequence.Sequencer, logger *zap.Logger, maxUploadMB int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		transformer: tx,
		profiles:    profiles,
		sequencer:   seq,
		logger:      logger,
		maxUpload:   int64(maxUploadMB) << 20,
		now:         time.Now,
		tracer:      otel.Tracer("github.com/javajack/xloffer/internal/server"),
	}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/process", s.handleProcess)
	mux.HandleFunc("GET /api/profiles", s.handleListProfiles)
	mux.HandleFunc("POST /api/profiles", s.handleImportProfile)
	mux.HandleFunc("GET /api/profiles/{id}", s.handleGetProfile)
	mux.HandleFunc("POST /api/profiles/{id}/clone", s.handleCloneProfile)
	mux.HandleFunc("DELETE /api/profiles/{id}", s.handleDeleteProfile)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "process offer", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	doc, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}
	if len(doc) == 0 {
		writeError(w, http.StatusBadRequest, "file is empty")
		return
	}
	span.SetAttributes(attribute.String("file.name", header.Filename), attribute.Int("file.size", len(doc)))

	profileID := r.URL.Query().Get("profileId")
	profile, err := xloffer.ResolveProfile(s.profiles, profileID)
	if errors.Is(err, xloffer.ErrProfileNotFound) {
		metrics.TransformsTotal.WithLabelValues(metrics.OutcomeProfileNotFound).Inc()
		writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	if err != nil {
		s.fail(w, span, err)
		return
	}

	refDate := s.now()
	seq, err := s.sequenceFor(ctx, r.URL.Query().Get("sequence"), refDate)
	if err != nil {
		if errors.Is(err, errBadSequence) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.fail(w, span, err)
		return
	}

	res, err := s.transformer.Transform(xloffer.Request{
		Document:      doc,
		Profile:       profile,
		ReferenceDate: refDate,
		FileName:      header.Filename,
		Sequence:      seq,
	})
	var formatErr *xloffer.DocumentFormatError
	if errors.As(err, &formatErr) {
		metrics.TransformsTotal.WithLabelValues(metrics.OutcomeInvalidDocument).Inc()
		span.RecordError(err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.fail(w, span, err)
		return
	}

	metrics.TransformsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.TransformDuration.Observe(time.Since(start).Seconds())
	metrics.PricesReplaced.Add(float64(res.PricesUpdated))
	span.SetAttributes(attribute.String("offer.number", res.OfferNumber))

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.FileName))
	w.Header().Set("X-Offer-Number", res.OfferNumber)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Document)
}

var errBadSequence = errors.New("sequence must be a positive integer")

// sequenceFor parses an explicit sequence or allocates the next one for day.
func (s *Server) sequenceFor(ctx context.Context, raw string, day time.Time) (int, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, errBadSequence
		}
		return n, nil
	}
	if s.sequencer == nil {
		return 1, nil
	}
	n, err := s.sequencer.Next(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("allocate sequence: %w", err)
	}
	return n, nil
}

func (s *Server) fail(w http.ResponseWriter, span trace.Span, err error) {
	metrics.TransformsTotal.WithLabelValues(metrics.OutcomeError).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.Error("process offer failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := s.profiles.List()
	if err != nil {
		s.logger.Error("list profiles", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Get(r.PathValue("id"))
	if s.profileError(w, err) {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleImportProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.profiles.Import(http.MaxBytesReader(w, r.Body, s.maxUpload))
	var schemaErr *profilestore.SchemaError
	if errors.As(err, &schemaErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid profile", "violations": schemaErr.Violations})
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleCloneProfile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	p, err := s.profiles.Clone(r.PathValue("id"), name)
	if s.profileError(w, err) {
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if s.profileError(w, s.profiles.Delete(r.PathValue("id"))) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// profileError writes the response for a store error and reports whether it did.
func (s *Server) profileError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, xloffer.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile not found")
	default:
		s.logger.Error("profile store", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
