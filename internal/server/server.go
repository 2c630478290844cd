// Package server exposes the editor-facing HTTP surface: publish a carousel
// (streaming progress as newline-delimited JSON), preview inline markup, and
// resolve account profiles.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	commonerrors "carousel-studio/internal/common/errors"
	"carousel-studio/internal/common/logger"
	"carousel-studio/internal/common/metrics"
	"carousel-studio/internal/common/validation"
	"carousel-studio/internal/markup"
	"carousel-studio/internal/models"
	"carousel-studio/internal/publish"
	"carousel-studio/internal/render"
)

// Resolver is the account lookup surface the server needs.
type Resolver interface {
	Resolve(ctx context.Context, accountID, accessToken string) (*models.Account, error)
}

type Server struct {
	publisher *publish.Publisher
	renderer  render.Renderer
	resolver  Resolver
	extraSink publish.Sink
	logger    logger.Logger

	// The editor disables its publish button while a run is outstanding,
	// but the workflow core does not self-serialize, so the server guards
	// against concurrent runs itself.
	runActive atomic.Bool
}

// New builds the server. extraSink may be nil; when set, every progress
// message also goes there (log sink, SNS fan-out).
func New(publisher *publish.Publisher, renderer render.Renderer, resolver Resolver, extraSink publish.Sink, log logger.Logger) *Server {
	return &Server{
		publisher: publisher,
		renderer:  renderer,
		resolver:  resolver,
		extraSink: extraSink,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Routes registers all handlers on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/publish", s.handlePublish)
	mux.HandleFunc("POST /api/markup/preview", s.handleMarkupPreview)
	mux.HandleFunc("GET /api/account/{id}", s.handleAccount)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
}

// statusLine is one NDJSON line on the publish response: progress while the
// run is going, the terminal result as the last line.
type statusLine struct {
	Status string                `json:"status,omitempty"`
	Result *models.PublishResult `json:"result,omitempty"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 64<<20))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, commonerrors.NewRequestInvalidError(err.Error()))
		return
	}

	if err := validation.ValidatePublishRequest(raw); err != nil {
		s.writeError(w, http.StatusBadRequest, commonerrors.NewRequestInvalidError(err.Error()))
		return
	}

	var req models.PublishRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, commonerrors.NewRequestInvalidError(err.Error()))
		return
	}

	if !req.Account.IsDemo() && req.Account.AccessToken == "" {
		s.writeError(w, http.StatusUnauthorized,
			commonerrors.NewAccountInvalidError("a real account requires an access token"))
		return
	}

	if !s.runActive.CompareAndSwap(false, true) {
		s.writeError(w, http.StatusConflict, commonerrors.NewRunInProgressError())
		return
	}
	defer s.runActive.Store(false)

	assets, err := render.CollectAssets(r.Context(), s.renderer, req.Slides)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	sink := publish.MultiSink{
		publish.SinkFunc(func(msg string) {
			_ = enc.Encode(statusLine{Status: msg})
			if flusher != nil {
				flusher.Flush()
			}
		}),
		s.extraSink,
	}

	run := s.publisher.NewRun(req.Account, req.Caption, assets, sink)
	result, runErr := run.Execute(r.Context())
	if runErr != nil {
		s.logger.Warn("publish run ended in failure", map[string]interface{}{
			"accountId": req.Account.ID,
			"error":     result.Error,
		})
	}
	_ = enc.Encode(statusLine{Result: result})
	if flusher != nil {
		flusher.Flush()
	}
}

type previewRequest struct {
	Text string `json:"text"`
}

type previewSegment struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type previewResponse struct {
	Lines [][]previewSegment `json:"lines"`
}

func (s *Server) handleMarkupPreview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, commonerrors.NewRequestInvalidError(err.Error()))
		return
	}

	metrics.MarkupParses.Inc()

	lines := markup.Parse(req.Text)
	resp := previewResponse{Lines: make([][]previewSegment, len(lines))}
	for i, line := range lines {
		segs := make([]previewSegment, len(line))
		for j, seg := range line {
			segs[j] = previewSegment{Kind: seg.Kind.String(), Text: seg.Text}
		}
		resp.Lines[i] = segs
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")
	accessToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	acct, err := s.resolver.Resolve(r.Context(), accountID, accessToken)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, commonerrors.NewGraphAPIError(err.Error()))
		return
	}

	// Tokens never leave the server on this endpoint.
	acct.AccessToken = ""
	s.writeJSON(w, http.StatusOK, acct)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if stdErr, ok := err.(*commonerrors.StandardError); ok {
		s.writeJSON(w, status, stdErr)
		return
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
