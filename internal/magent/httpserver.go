package magent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dusk-indust/magent/internal/telemetry"
)

// WellKnownPath is the discovery endpoint every agent serves its card at.
const WellKnownPath = "/.well-known/agent.json"

// InvokePath is the endpoint messages are posted to.
const InvokePath = "/invoke"

// Start creates an HTTP server, registers routes, and begins serving.
// It returns immediately after starting the server in a background
// goroutine. If the card has no URL it is derived from the bind address.
func (s *Server) Start(ctx context.Context, addr string) error {
	if s.card.URL == "" {
		s.card.URL = "http://" + addr
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET "+WellKnownPath, s.handleAgentCard)
	mux.HandleFunc("POST "+InvokePath, s.handleInvoke)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go s.http.ListenAndServe()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleAgentCard serves the agent card as JSON at the well-known endpoint.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.card); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleInvoke decodes the incoming message, runs the handler, and writes
// the reply. Malformed or invalid messages are rejected with 400 before the
// handler runs; handler errors and panics produce 500 without taking the
// server down.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var msg Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		telemetry.Metrics.InvokeRequestsTotal.WithLabelValues(s.card.Name, "bad_request").Inc()
		http.Error(w, "invalid message: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := msg.Validate(); err != nil {
		telemetry.Metrics.InvokeRequestsTotal.WithLabelValues(s.card.Name, "bad_request").Inc()
		http.Error(w, "invalid message: "+err.Error(), http.StatusBadRequest)
		return
	}

	reply, err := s.invoke(r.Context(), msg)
	if err != nil {
		telemetry.Metrics.InvokeRequestsTotal.WithLabelValues(s.card.Name, "error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)

	telemetry.Metrics.InvokeRequestsTotal.WithLabelValues(s.card.Name, "ok").Inc()
	telemetry.Metrics.InvokeDuration.WithLabelValues(s.card.Name).Observe(time.Since(start).Seconds())
}

// invoke runs the handler with panic isolation so a misbehaving capability
// surfaces as a request error instead of crashing the process.
func (s *Server) invoke(ctx context.Context, msg Message) (reply Message, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("magent: handler panic: %v", r)
		}
	}()
	return s.handler.HandleMessage(ctx, msg)
}
