package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"

	"github.com/grafana/adaptive-trace-sampler/pkg/sampler"
)

// debugHandler exposes the controller's internal state for operators, the
// way tempo-federated-querier's Handler exposes build/instance info: no
// externally-facing sampling behavior lives here, only introspection.
type debugHandler struct {
	controller *sampler.SamplingController
	cfg        Config
	logger     log.Logger
}

func newDebugHandler(controller *sampler.SamplingController, cfg Config, logger log.Logger) *debugHandler {
	return &debugHandler{controller: controller, cfg: cfg, logger: logger}
}

func (h *debugHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/debug/topk", h.topKHandler).Methods(http.MethodGet)
	r.HandleFunc("/debug/config", h.configHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.readyHandler).Methods(http.MethodGet)
}

func (h *debugHandler) topKHandler(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, h.controller.Snapshot())
}

func (h *debugHandler) configHandler(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, h.cfg)
}

func (h *debugHandler) readyHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (h *debugHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Error(h.logger).Log("msg", "failed to encode debug response", "err", err)
	}
}
