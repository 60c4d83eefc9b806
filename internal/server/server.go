// Package server exposes the affordability engine and the client pipeline
// over an HTTP JSON API.
package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"viabilidad/internal/cache"
	"viabilidad/internal/clients"
	"viabilidad/internal/engine"
	"viabilidad/internal/itp"
	"viabilidad/internal/property"
	"go.uber.org/zap"
)

type handler struct {
	logger       *zap.Logger
	store        *clients.Store
	cache        cache.Store
	table        *itp.Table
	interestRate float64
	version      string
}

// NewHandler constructs the HTTP handler that serves the study and pipeline API.
func NewHandler(logger *zap.Logger, store *clients.Store, cacheStore cache.Store, table *itp.Table, interestRate float64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheStore == nil {
		cacheStore = cache.NewMemory()
	}
	if table == nil {
		table = itp.DefaultTable()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:       logger,
		store:        store,
		cache:        cacheStore,
		table:        table,
		interestRate: interestRate,
		version:      trimmedVersion,
	}

	mux := http.NewServeMux()

	// Study API endpoints
	mux.HandleFunc("/api/affordability", h.handleAffordability)
	mux.HandleFunc("/api/property", h.handleProperty)
	mux.HandleFunc("/api/tax", h.handleTax)
	mux.HandleFunc("/api/regions", h.handleRegions)

	// Client pipeline endpoints
	mux.HandleFunc("/api/clients", h.handleClients)
	mux.HandleFunc("/api/clients/", h.handleClientByID)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type affordabilityRequest struct {
	Input        engine.Input `json:"input"`
	InterestRate float64      `json:"interestRate,omitempty"`
}

type affordabilityResponse struct {
	Result       *engine.Result `json:"result"`
	InterestRate float64        `json:"interestRate"`
	Duration     string         `json:"duration"`
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var req affordabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleAffordability")
		return
	}

	rate := h.resolveRate(req.InterestRate)
	result := engine.Compute(req.Input, rate)

	elapsed := time.Since(start)
	h.logger.Info("affordability computed",
		zap.String("op", "server.handleAffordability"),
		zap.Int("holders", req.Input.Holders),
		zap.Bool("sufficient", result != nil),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, affordabilityResponse{
		Result:       result,
		InterestRate: rate,
		Duration:     elapsed.String(),
	})
}

type propertyRequest struct {
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	Region       string       `json:"region"`
	Input        engine.Input `json:"input"`
	InterestRate float64      `json:"interestRate,omitempty"`
}

func (h *handler) handleProperty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleProperty")
		return
	}
	if req.Price <= 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "price must be positive", "server.handleProperty")
		return
	}

	rate := h.resolveRate(req.InterestRate)
	result := engine.Compute(req.Input, rate)

	comparison, err := property.Evaluate(req.Name, req.Price, req.Region, result, req.Input, h.table, rate)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), "server.handleProperty")
		return
	}

	h.logger.Info("property evaluated",
		zap.String("op", "server.handleProperty"),
		zap.String("region", req.Region),
		zap.Float64("price", req.Price),
	)

	h.writeJSON(w, http.StatusOK, comparison)
}

type taxRequest struct {
	Price  float64      `json:"price"`
	Region string       `json:"region"`
	Input  engine.Input `json:"input"`
}

type taxResponse struct {
	itp.Assessment
	Cached bool `json:"cached"`
}

func (h *handler) handleTax(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req taxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleTax")
		return
	}
	if req.Price <= 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "price must be positive", "server.handleTax")
		return
	}

	ctx := r.Context()
	key, keyErr := taxCacheKey(req)
	if keyErr == nil {
		if cached, ok := h.cache.Get(ctx, key); ok {
			var assessment itp.Assessment
			if err := json.Unmarshal([]byte(cached), &assessment); err == nil {
				h.writeJSON(w, http.StatusOK, taxResponse{Assessment: assessment, Cached: true})
				return
			}
		}
	}

	assessment := h.table.Estimate(req.Price, req.Region, req.Input)

	if keyErr == nil {
		if data, err := json.Marshal(assessment); err == nil {
			if err := h.cache.Set(ctx, key, string(data)); err != nil {
				h.logger.Warn("failed to cache tax estimate",
					zap.String("op", "server.handleTax"),
					zap.Error(err),
				)
			}
		}
	}

	h.logger.Info("tax estimated",
		zap.String("op", "server.handleTax"),
		zap.String("region", req.Region),
		zap.Bool("resolved", assessment.Resolved),
	)

	h.writeJSON(w, http.StatusOK, taxResponse{Assessment: assessment})
}

func taxCacheKey(req taxRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "tax:" + hex.EncodeToString(sum[:]), nil
}

func (h *handler) handleRegions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string][]string{
		"regions": h.table.Regions(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleClients(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "client pipeline is not configured", "server.handleClients")
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := h.store.List(r.Context())
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), "server.handleClients")
			return
		}
		h.writeJSON(w, http.StatusOK, map[string][]clients.Client{"clients": list})

	case http.MethodPost:
		var client clients.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode client: %v", err), "server.handleClients")
			return
		}
		if err := h.store.Save(r.Context(), &client); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleClients")
			return
		}
		h.writeJSON(w, http.StatusCreated, client)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleClientByID(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "client pipeline is not configured", "server.handleClientByID")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/clients/")
	if rest == "reorder" {
		h.handleClientReorder(w, r)
		return
	}

	idPart, subresource, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid client id %q", idPart), "server.handleClientByID")
		return
	}

	if subresource == "status" {
		h.handleClientStatus(w, r, id)
		return
	}
	if subresource != "" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		client, err := h.store.Get(r.Context(), id)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleClientByID")
			return
		}
		h.writeJSON(w, http.StatusOK, client)

	case http.MethodPut:
		var client clients.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode client: %v", err), "server.handleClientByID")
			return
		}
		client.ID = id
		if err := h.store.Update(r.Context(), &client); err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleClientByID")
			return
		}
		h.writeJSON(w, http.StatusOK, client)

	case http.MethodDelete:
		if err := h.store.Delete(r.Context(), id); err != nil {
			h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), "server.handleClientByID")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleClientStatus(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPatch {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		Status clients.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode status: %v", err), "server.handleClientStatus")
		return
	}

	if err := h.store.UpdateStatus(r.Context(), id, payload.Status); err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		h.respondErrorWithOp(w, status, err.Error(), "server.handleClientStatus")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": string(payload.Status)})
}

func (h *handler) handleClientReorder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode ids: %v", err), "server.handleClientReorder")
		return
	}
	if len(payload.IDs) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "ids must not be empty", "server.handleClientReorder")
		return
	}

	if err := h.store.Reorder(r.Context(), payload.IDs); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleClientReorder")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) resolveRate(override float64) float64 {
	if override > 0 {
		return override
	}
	return h.interestRate
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	if h.logger != nil {
		h.logger.Error("request failed",
			zap.String("op", op),
			zap.Int("status", status),
			zap.String("error", msg),
		)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
