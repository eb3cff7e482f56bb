package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/ingest"
	"github.com/leadwise/lead-engine/pkg/mapping"
	"github.com/leadwise/lead-engine/pkg/models"
	"github.com/leadwise/lead-engine/pkg/services"
	"github.com/leadwise/lead-engine/pkg/sessions"
)

// maxUploadBytes caps uploaded spreadsheet size at 32 MiB.
const maxUploadBytes = 32 << 20

// EditMappingRequest retargets one mapping entry during manual review.
type EditMappingRequest struct {
	TargetField string `json:"targetField"`
}

// ImportResponse describes one import session to the client.
type ImportResponse struct {
	ID       string                `json:"id"`
	Filename string                `json:"filename"`
	Headers  []string              `json:"headers"`
	RowCount int                   `json:"rowCount"`
	Mappings []models.FieldMapping `json:"mappings,omitempty"`
}

// ImportsHandler handles the import pipeline endpoints: file upload,
// field mapping, manual mapping review, validation, and export.
type ImportsHandler struct {
	store     sessions.Store
	mapper    *mapping.AIMapper
	validator *services.Validator
	logger    *zap.Logger
}

// NewImportsHandler creates a new ImportsHandler.
func NewImportsHandler(store sessions.Store, mapper *mapping.AIMapper, validator *services.Validator, logger *zap.Logger) *ImportsHandler {
	return &ImportsHandler{
		store:     store,
		mapper:    mapper,
		validator: validator,
		logger:    logger.Named("imports"),
	}
}

// RegisterRoutes registers the import pipeline routes on the given mux.
func (h *ImportsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/imports", h.CreateImport)
	mux.HandleFunc("GET /api/imports/{id}", h.GetImport)
	mux.HandleFunc("DELETE /api/imports/{id}", h.DeleteImport)
	mux.HandleFunc("POST /api/imports/{id}/mappings", h.MapFields)
	mux.HandleFunc("GET /api/imports/{id}/mappings", h.GetMappings)
	mux.HandleFunc("PUT /api/imports/{id}/mappings/{index}", h.EditMapping)
	mux.HandleFunc("POST /api/imports/{id}/validation", h.Validate)
	mux.HandleFunc("GET /api/imports/{id}/export", h.Export)
}

// CreateImport handles POST /api/imports. It accepts one multipart file
// and parses it into an import session. Parse failures are the only
// hard failures of the pipeline.
func (h *ImportsHandler) CreateImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "expected multipart form upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "missing file field")
		return
	}
	defer file.Close()

	table, err := ingest.Parse(header.Filename, file)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, apperrors.ErrUnsupportedFormat) {
			status = http.StatusUnsupportedMediaType
		}
		_ = ErrorResponse(w, status, "parse_failed", err.Error())
		return
	}

	imp, err := h.store.Create(r.Context(), header.Filename, table)
	if err != nil {
		h.logger.Error("Failed to create import session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to create import session")
		return
	}

	h.logger.Info("import created",
		zap.String("import_id", imp.ID.String()),
		zap.String("filename", imp.Filename),
		zap.Int("rows", len(table.DataRows())))

	_ = WriteJSON(w, http.StatusCreated, importResponse(imp))
}

// GetImport handles GET /api/imports/{id}.
func (h *ImportsHandler) GetImport(w http.ResponseWriter, r *http.Request) {
	imp, ok := h.loadImport(w, r)
	if !ok {
		return
	}
	_ = WriteJSON(w, http.StatusOK, importResponse(imp))
}

// DeleteImport handles DELETE /api/imports/{id}.
func (h *ImportsHandler) DeleteImport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid import id")
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete import session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to delete import session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MapFields handles POST /api/imports/{id}/mappings. It runs the
// classifier-backed mapper; classifier failures silently fall back to
// the keyword mapper, so this only errors when the client walked away.
func (h *ImportsHandler) MapFields(w http.ResponseWriter, r *http.Request) {
	imp, ok := h.loadImport(w, r)
	if !ok {
		return
	}

	mappings, err := h.mapper.Map(r.Context(), imp.Table)
	if err != nil {
		// Context cancellation: no mapping produced, nothing stored.
		_ = ErrorResponse(w, http.StatusRequestTimeout, "mapping_canceled", "mapping was canceled before completion")
		return
	}

	if err := h.store.SaveMappings(r.Context(), imp.ID, mappings); err != nil {
		h.logger.Error("Failed to save mappings", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to save mappings")
		return
	}

	_ = WriteJSON(w, http.StatusOK, mappings)
}

// GetMappings handles GET /api/imports/{id}/mappings.
func (h *ImportsHandler) GetMappings(w http.ResponseWriter, r *http.Request) {
	imp, ok := h.loadImport(w, r)
	if !ok {
		return
	}
	if imp.Mappings == nil {
		_ = ErrorResponse(w, http.StatusConflict, "no_mappings", apperrors.ErrNoMappings.Error())
		return
	}
	_ = WriteJSON(w, http.StatusOK, imp.Mappings)
}

// EditMapping handles PUT /api/imports/{id}/mappings/{index}.
func (h *ImportsHandler) EditMapping(w http.ResponseWriter, r *http.Request) {
	imp, ok := h.loadImport(w, r)
	if !ok {
		return
	}
	if imp.Mappings == nil {
		_ = ErrorResponse(w, http.StatusConflict, "no_mappings", apperrors.ErrNoMappings.Error())
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid mapping index")
		return
	}

	var req EditMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetField == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "targetField is required")
		return
	}

	edited, err := mapping.EditMapping(imp.Mappings, index, req.TargetField)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.store.SaveMappings(r.Context(), imp.ID, edited); err != nil {
		h.logger.Error("Failed to save mappings", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to save mappings")
		return
	}

	_ = WriteJSON(w, http.StatusOK, edited)
}

// Validate handles POST /api/imports/{id}/validation. Records are
// re-projected from the immutable table and the current mappings on
// every run, so validation stays idempotent.
func (h *ImportsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	imp, ok := h.loadImport(w, r)
	if !ok {
		return
	}
	if imp.Mappings == nil {
		_ = ErrorResponse(w, http.StatusConflict, "no_mappings", apperrors.ErrNoMappings.Error())
		return
	}

	records := mapping.ProjectRecords(imp.Table, imp.Mappings)
	result := h.validator.Validate(records)
	_ = WriteJSON(w, http.StatusOK, result)
}

// Export handles GET /api/imports/{id}/export?format=csv|xlsx|xls.
// Only records passing validation are exported. Legacy xls requests
// download as an xlsx workbook.
func (h *ImportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	imp, ok := h.loadImport(w, r)
	if !ok {
		return
	}
	if imp.Mappings == nil {
		_ = ErrorResponse(w, http.StatusConflict, "no_mappings", apperrors.ErrNoMappings.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	records := mapping.ProjectRecords(imp.Table, imp.Mappings)
	result := h.validator.Validate(records)
	rows := services.ProjectForExport(result.ValidRecords, imp.Mappings)

	payload, err := ingest.Write(rows, format)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	w.Header().Set("Content-Type", ingest.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="crm_import.`+ingest.Extension(format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// loadImport resolves the {id} path value into a session, writing the
// error response itself when that fails.
func (h *ImportsHandler) loadImport(w http.ResponseWriter, r *http.Request) (*sessions.Import, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "invalid import id")
		return nil, false
	}

	imp, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrImportNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "not_found", "import not found")
			return nil, false
		}
		h.logger.Error("Failed to load import session", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to load import session")
		return nil, false
	}
	return imp, true
}

func importResponse(imp *sessions.Import) ImportResponse {
	return ImportResponse{
		ID:       imp.ID.String(),
		Filename: imp.Filename,
		Headers:  imp.Table.Headers(),
		RowCount: len(imp.Table.DataRows()),
		Mappings: imp.Mappings,
	}
}
