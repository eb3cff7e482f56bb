package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/config"
	"github.com/leadwise/lead-engine/pkg/logging"
	"github.com/leadwise/lead-engine/pkg/mapping"
	"github.com/leadwise/lead-engine/pkg/odoo"
	"github.com/leadwise/lead-engine/pkg/services"
	"github.com/leadwise/lead-engine/pkg/sessions"
)

// OdooConnectionRequest carries per-request CRM credentials. Every field
// left empty falls back to the server-side configuration.
type OdooConnectionRequest struct {
	URL      string `json:"url"`
	Database string `json:"database"`
	Username string `json:"username"`
	APIKey   string `json:"apiKey"`
}

// TestConnectionResponse reports a successful credential check.
type TestConnectionResponse struct {
	Success  bool   `json:"success"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// OdooHandler handles CRM connectivity and the final record upload.
type OdooHandler struct {
	store     sessions.Store
	client    *odoo.Client
	validator *services.Validator
	uploader  *services.Uploader
	defaults  config.OdooConfig
	logger    *zap.Logger
}

// NewOdooHandler creates a new OdooHandler.
func NewOdooHandler(store sessions.Store, client *odoo.Client, validator *services.Validator, uploader *services.Uploader, defaults config.OdooConfig, logger *zap.Logger) *OdooHandler {
	return &OdooHandler{
		store:     store,
		client:    client,
		validator: validator,
		uploader:  uploader,
		defaults:  defaults,
		logger:    logger.Named("odoo"),
	}
}

// RegisterRoutes registers the CRM routes on the given mux.
func (h *OdooHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/odoo/test", h.TestConnection)
	mux.HandleFunc("POST /api/imports/{id}/upload", h.Upload)
}

// TestConnection handles POST /api/odoo/test. An empty body tests the
// server-side credentials.
func (h *OdooHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.resolveConfig(w, r)
	if !ok {
		return
	}

	version, err := h.client.TestConnection(r.Context(), cfg)
	if err != nil {
		h.logger.Warn("Odoo connection test failed",
			zap.String("url", logging.SanitizeURL(cfg.URL)),
			zap.String("error", logging.SanitizeError(err)))
		_ = ErrorResponse(w, http.StatusBadGateway, "connection_failed", err.Error())
		return
	}

	_ = WriteJSON(w, http.StatusOK, TestConnectionResponse{
		Success:  true,
		Version:  version,
		Database: cfg.Database,
	})
}

// Upload handles POST /api/imports/{id}/upload. Records are validated
// again before upload so stale sessions cannot push invalid rows.
func (h *OdooHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid import id")
		return
	}
	imp, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrImportNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "not_found", "import not found")
			return
		}
		h.logger.Error("Failed to load import session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to load import session")
		return
	}
	if imp.Mappings == nil {
		_ = ErrorResponse(w, http.StatusConflict, "no_mappings", apperrors.ErrNoMappings.Error())
		return
	}

	cfg, ok := h.resolveConfig(w, r)
	if !ok {
		return
	}

	records := mapping.ProjectRecords(imp.Table, imp.Mappings)
	validation := h.validator.Validate(records)

	result, err := h.uploader.Upload(r.Context(), cfg, validation.ValidRecords, imp.Mappings)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRecords) {
			_ = ErrorResponse(w, http.StatusUnprocessableEntity, "no_valid_records", "no valid records to upload")
			return
		}
		h.logger.Error("Upload failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadGateway, "upload_failed", err.Error())
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

// resolveConfig merges request credentials over the server defaults and
// rejects the call when the merged result is still incomplete.
func (h *OdooHandler) resolveConfig(w http.ResponseWriter, r *http.Request) (*odoo.Config, bool) {
	var req OdooConnectionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid request body")
			return nil, false
		}
	}

	cfg := &odoo.Config{
		URL:      firstNonEmpty(req.URL, h.defaults.URL),
		Database: firstNonEmpty(req.Database, h.defaults.Database),
		Username: firstNonEmpty(req.Username, h.defaults.Username),
		APIKey:   firstNonEmpty(req.APIKey, h.defaults.APIKey),
	}
	if cfg.URL == "" || cfg.Database == "" || cfg.Username == "" || cfg.APIKey == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "url, database, username and apiKey are required")
		return nil, false
	}
	return cfg, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
