package node

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/NethermindEth/accountcheck/checker"
	"github.com/NethermindEth/accountcheck/core/address"
	"github.com/NethermindEth/accountcheck/metrics"
	"github.com/NethermindEth/accountcheck/utils"
	"github.com/NethermindEth/accountcheck/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"
)

const (
	maxBodyBytes                 = 1 << 20
	defaultMaxConcurrentRequests = 64
)

type classifyRequest struct {
	Addresses []string `json:"addresses" validate:"required,min=1,max=100"`
}

type validateResponse struct {
	Valid   bool   `json:"valid"`
	Address string `json:"address"`
}

type registryEntry struct {
	Vendor    string `json:"vendor"`
	ClassHash string `json:"classHash"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the classification API.
type Handler struct {
	checker   *checker.Checker
	throttler *utils.Throttler[checker.Checker]
	log       utils.SimpleLogger
	mux       *http.ServeMux
	handler   http.Handler

	originPatterns []string
}

func NewHandler(c *checker.Checker, log utils.SimpleLogger) *Handler {
	h := &Handler{
		checker:   c,
		throttler: utils.NewThrottler(defaultMaxConcurrentRequests, c),
		log:       log,
		mux:       http.NewServeMux(),
	}
	h.handler = h.mux

	h.mux.HandleFunc("GET /v1/classify/{address}", h.classify)
	h.mux.HandleFunc("POST /v1/classify", h.classifyBatch)
	h.mux.HandleFunc("GET /v1/validate/{address}", h.validate)
	h.mux.HandleFunc("GET /v1/registry", h.registry)
	h.mux.HandleFunc("GET /v1/ws", h.stream)
	h.mux.HandleFunc("GET /live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return h
}

// WithCORS allows cross origin requests, websocket upgrades included, from the
// given origins. No origins leaves CORS disabled.
func (h *Handler) WithCORS(origins []string) *Handler {
	if len(origins) > 0 {
		h.originPatterns = originHosts(origins)
		h.handler = cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
		}).Handler(h.mux)
	}
	return h
}

// WithThrottling bounds the classification requests running at the same
// time. Requests beyond maxQueued waiting ones are rejected with 503.
func (h *Handler) WithThrottling(maxConcurrent uint, maxQueued int32) *Handler {
	if maxConcurrent > 0 {
		h.throttler = utils.NewThrottler(maxConcurrent, h.checker)
		if maxQueued > 0 {
			h.throttler = h.throttler.WithMaxQueueLen(maxQueued)
		}
	}
	return h
}

// WithLogLevel exposes the log level for reading and changing at /log/level.
func (h *Handler) WithLogLevel(level *utils.LogLevel) *Handler {
	if level != nil {
		h.mux.HandleFunc("/log/level", func(w http.ResponseWriter, r *http.Request) {
			utils.HTTPLogSettings(w, r, level)
		})
	}
	return h
}

func (h *Handler) WithMetrics(registry *prometheus.Registry) *Handler {
	h.mux.Handle("GET /metrics", metrics.Handler(registry))
	return h
}

// QueuedRequests returns the number of classification requests waiting for a slot.
func (h *Handler) QueuedRequests() int {
	return h.throttler.QueueLen()
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *Handler) classify(w http.ResponseWriter, r *http.Request) {
	var result checker.Result
	err := h.throttler.Do(r.Context(), func(c *checker.Checker) error {
		result = c.Classify(r.Context(), r.PathValue("address"))
		return nil
	})
	if err != nil {
		h.writeBusy(w, err)
		return
	}
	h.writeJSON(w, statusOf(result), result.Report())
}

func (h *Handler) classifyBatch(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})
		return
	}
	if err := validator.Validator().Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var results []checker.Result
	err := h.throttler.Do(r.Context(), func(c *checker.Checker) error {
		results = c.ClassifyAll(r.Context(), req.Addresses)
		return nil
	})
	if err != nil {
		h.writeBusy(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, utils.Map(results, checker.Result.Report))
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	normalised, valid := address.Validate(r.PathValue("address"))
	h.writeJSON(w, http.StatusOK, validateResponse{Valid: valid, Address: normalised})
}

func (h *Handler) registry(w http.ResponseWriter, _ *http.Request) {
	entries := h.checker.Registry().Entries()
	resp := make([]registryEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, registryEntry{Vendor: e.Vendor, ClassHash: e.ClassHash.Canonical()})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeBusy(w http.ResponseWriter, err error) {
	status := http.StatusServiceUnavailable
	if !errors.Is(err, utils.ErrResourceBusy) {
		// the client went away while queued
		status = http.StatusRequestTimeout
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(result checker.Result) int {
	switch result.Type() {
	case checker.KindInvalid:
		return http.StatusBadRequest
	case checker.KindUnknown:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Warnw("Failed to write response", "err", err)
	}
}
