// Package server serves the interactive dashboard: the rendered chart page
// and the run results as JSON, recomputed per request with optional motion
// and timing overrides from the query string.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/banshee-data/spotmotion/internal/dose"
	"github.com/banshee-data/spotmotion/internal/httputil"
	"github.com/banshee-data/spotmotion/internal/monitoring"
	"github.com/banshee-data/spotmotion/internal/report"
	"github.com/banshee-data/spotmotion/internal/sweep"
	"github.com/banshee-data/spotmotion/internal/version"
)

// DefaultAddress is the listen address when Config.Address is empty.
const DefaultAddress = "localhost:8090"

// shutdownTimeout bounds graceful shutdown once the context is cancelled.
const shutdownTimeout = 2 * time.Second

// Config contains configuration options for the dashboard server
type Config struct {
	Address    string
	Base       dose.Params
	OrderNames []string
	Seed       uint64

	// Registry resolves OrderNames; nil uses the built-in generators.
	Registry *dose.OrderRegistry
}

// Server handles the dashboard HTTP interface.
type Server struct {
	address string
	base    dose.Params
	orders  []dose.NamedOrder
	server  *http.Server
}

// New validates the base parameters and generates the order set once. Query
// overrides only touch motion and timing, so the set stays valid for every
// request.
func New(cfg Config) (*Server, error) {
	if _, err := dose.NewModel(cfg.Base); err != nil {
		return nil, err
	}
	reg := cfg.Registry
	if reg == nil {
		reg = dose.DefaultOrderRegistry()
	}
	orders, err := reg.BuildOrderSet(cfg.OrderNames, cfg.Base.NSpots, cfg.Seed)
	if err != nil {
		return nil, err
	}

	s := &Server{
		address: cfg.Address,
		base:    cfg.Base,
		orders:  orders,
	}
	if s.address == "" {
		s.address = DefaultAddress
	}
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Address returns the configured listen address.
func (s *Server) Address() string { return s.address }

// Handler returns the routed dashboard handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/results", s.handleResults)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully. A
// listen failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("Starting dashboard on http://%s", s.address)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("dashboard server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	monitoring.Logf("shutting down dashboard...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("dashboard shutdown error: %v", err)
		if err := s.server.Close(); err != nil {
			monitoring.Logf("dashboard force close error: %v", err)
		}
	}
	return nil
}

// overrideKeys are the query parameters that replace base values.
var overrideKeys = []string{"amplitude", "period", "phase", "spot_delay", "layer_delay"}

// paramsFromQuery applies query overrides to base and validates the result.
func paramsFromQuery(base dose.Params, q url.Values) (dose.Params, error) {
	p := base
	targets := map[string]*float64{
		"amplitude":   &p.Motion.Amplitude,
		"period":      &p.Motion.Period,
		"phase":       &p.Motion.Phase,
		"spot_delay":  &p.Timing.SpotDelay,
		"layer_delay": &p.Timing.LayerDelay,
	}
	for _, key := range overrideKeys {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, fmt.Errorf("%w: invalid %s %q", dose.ErrInvalidConfiguration, key, raw)
		}
		*targets[key] = v
	}
	if err := p.Motion.Validate(); err != nil {
		return p, err
	}
	if err := p.Timing.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (s *Server) run(r *http.Request) (*sweep.Result, error) {
	p, err := paramsFromQuery(s.base, r.URL.Query())
	if err != nil {
		return nil, err
	}
	model, err := dose.NewModel(p)
	if err != nil {
		return nil, err
	}
	return sweep.Run(model, s.orders)
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputil.MethodNotAllowed(w, http.MethodGet, http.MethodHead)
		return false
	}
	return true
}

func writeRunError(w http.ResponseWriter, err error) {
	if errors.Is(err, dose.ErrInvalidConfiguration) || errors.Is(err, dose.ErrInvalidOrder) {
		httputil.BadRequest(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	httputil.WriteJSONOK(w, map[string]string{"status": "ok", "version": version.Version})
}

// ResultsResponse is the body of /api/results.
type ResultsResponse struct {
	Result  *sweep.Result        `json:"result"`
	Summary []sweep.OrderSummary `json:"summary"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	res, err := s.run(r)
	if err != nil {
		writeRunError(w, err)
		return
	}
	httputil.WriteJSONOK(w, ResultsResponse{Result: res.Compact(), Summary: sweep.Summarise(res)})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		httputil.WriteJSONError(w, http.StatusNotFound, "not found")
		return
	}
	if !requireGet(w, r) {
		return
	}
	res, err := s.run(r)
	if err != nil {
		writeRunError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, res); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}
	httputil.WriteHTML(w, buf.Bytes())
}
