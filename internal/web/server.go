// Package web provides the dashboard-facing HTTP API for the chamber
// daemon: current conditions, stored history, daemon status, and the
// phase and manual-override commands.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pentaplets/chamber-control/internal/actuator"
	"github.com/pentaplets/chamber-control/internal/phase"
	"github.com/pentaplets/chamber-control/internal/sensor"
	"github.com/pentaplets/chamber-control/internal/status"
)

// HistoryProvider serves stored readings. The local store implements it,
// so history stays available through a primary outage.
type HistoryProvider interface {
	History(ctx context.Context, since time.Time) ([]sensor.Reading, error)
}

// Controller accepts dashboard commands. The control loop implements it.
type Controller interface {
	SetPhase(name string, force bool) error
	Override(ch actuator.Channel, on bool, d time.Duration) error
	ResumeAuto(ch actuator.Channel) error
}

// Server serves the dashboard API over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	history    HistoryProvider
	control    Controller
	now        func() time.Time
}

// New creates a Server reading state from tracker, history from hp, and
// routing commands to ctl.
func New(addr string, tracker *status.Tracker, hp HistoryProvider, ctl Controller) *Server {
	s := &Server{
		tracker: tracker,
		history: hp,
		control: ctl,
		now:     time.Now,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/current", s.handleCurrent).Methods(http.MethodGet)
	r.HandleFunc("/api/history", s.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/phase", s.handleSetPhase).Methods(http.MethodPost)
	r.HandleFunc("/api/control/{channel}", s.handleOverride).Methods(http.MethodPost)
	r.HandleFunc("/api/control/{channel}/resume", s.handleResume).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	if !snap.HaveReading {
		writeError(w, http.StatusNotFound, "no reading recorded yet")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Reading       *ReadingJSON `json:"reading"`
		TempCondition string       `json:"temp_condition"`
		Phase         string       `json:"phase"`
	}{
		Reading:       formatReading(snap.Reading),
		TempCondition: string(snap.TempCondition),
		Phase:         snap.Phase,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	hours := 24
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 24*30 {
			writeError(w, http.StatusBadRequest, "hours must be between 1 and 720")
			return
		}
		hours = n
	}

	since := s.now().Add(-time.Duration(hours) * time.Hour)
	readings, err := s.history.History(r.Context(), since)
	if err != nil {
		log.Printf("web: history query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	out := make([]*ReadingJSON, 0, len(readings))
	for _, rd := range readings {
		out = append(out, formatReading(rd))
	}
	writeJSON(w, http.StatusOK, struct {
		Hours    int            `json:"hours"`
		Count    int            `json:"count"`
		Readings []*ReadingJSON `json:"readings"`
	}{Hours: hours, Count: len(out), Readings: out})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(formatJSON(snap))
}

func (s *Server) handleSetPhase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phase string `json:"phase"`
		Force bool   `json:"force"`
	}
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := s.control.SetPhase(req.Phase, req.Force)
	switch {
	case errors.Is(err, phase.ErrOutOfOrder):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"phase": req.Phase})
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	ch, err := actuator.ParseChannel(mux.Vars(r)["channel"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req struct {
		On              *bool `json:"on"`
		DurationSeconds int   `json:"duration_seconds"`
	}
	if err := decodeBody(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.On == nil {
		writeError(w, http.StatusBadRequest, "missing required field: on")
		return
	}
	if req.DurationSeconds < 0 {
		writeError(w, http.StatusBadRequest, "duration_seconds must not be negative")
		return
	}

	d := time.Duration(req.DurationSeconds) * time.Second
	if err := s.control.Override(ch, *req.On, d); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"channel": string(ch), "on": *req.On})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	ch, err := actuator.ParseChannel(mux.Vars(r)["channel"])
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err := s.control.ResumeAuto(ch); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"channel": string(ch), "reason": string(actuator.ReasonAuto)})
}

func decodeBody(body io.Reader, dst any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("malformed request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
