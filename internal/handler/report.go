package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chatlens/chatlens/internal/handler/dto"
	"github.com/chatlens/chatlens/internal/middleware"
	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/service"
)

// uploadFormMemory is how much of a multipart upload is kept in memory
// before spilling to temporary files.
const uploadFormMemory = 8 << 20

// ReportService is the part of service.ReportService the handlers use.
type ReportService interface {
	CreateReport(ctx context.Context, input service.CreateReportInput) (*service.CreateReportOutput, error)
	GetReport(ctx context.Context, id string) (*model.Report, error)
	Teaser(ctx context.Context, id string) (model.Teaser, error)
	Share(ctx context.Context, id string, variant model.ShareVariant) (*service.ShareOutput, error)
	Shared(ctx context.Context, token string) (*service.SharedReport, error)
}

// ReportHandler handles HTTP requests for report operations.
type ReportHandler struct {
	svc    ReportService
	logger *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc ReportService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ReportHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	anonymize := false
	if v := r.URL.Query().Get("anonymize"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_QUERY", "anonymize must be true or false")
			return
		}
		anonymize = parsed
	}

	if err := r.ParseMultipartForm(uploadFormMemory); err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_UPLOAD", "Request must be multipart/form-data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "Form field \"file\" is required")
		return
	}
	defer file.Close()

	if err := middleware.ValidateUploadFilename(header.Filename); err != nil {
		if errors.Is(err, middleware.ErrFileTypeInvalid) {
			writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_FILENAME", err.Error())
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		if isTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Upload exceeds the size limit")
			return
		}
		h.logger.Error("failed to read upload", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	out, err := h.svc.CreateReport(r.Context(), service.CreateReportInput{
		Filename:  header.Filename,
		Data:      data,
		Anonymize: anonymize,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToCreateReportResponse(out))
}

// Get handles GET /api/v1/reports/{id}.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}

	report, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToReportResponse(report))
}

// Teaser handles GET /api/v1/reports/{id}/teaser.
func (h *ReportHandler) Teaser(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}

	teaser, err := h.svc.Teaser(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, teaser)
}

// Share handles POST /api/v1/reports/{id}/share.
func (h *ReportHandler) Share(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}

	var req dto.ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	out, err := h.svc.Share(r.Context(), id, model.ShareVariant(req.Variant))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("share token issued", "report_id", id, "variant", req.Variant)

	writeJSON(w, http.StatusCreated, dto.ToShareResponse(out))
}

// Shared handles GET /api/v1/shared/{token}.
func (h *ReportHandler) Shared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if err := middleware.ValidateShareToken(token); err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Share token is invalid")
		return
	}

	view, err := h.svc.Shared(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToSharedResponse(view))
}

// reportID reads and validates the {id} URL parameter, writing a 400 when
// it is not a ULID.
func reportID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Report ID is required")
		return "", false
	}
	if err := middleware.ValidateReportID(id); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Report ID is not valid")
		return "", false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *ReportHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoMessages):
		writeError(w, http.StatusUnprocessableEntity, "NO_MESSAGES", "No chat messages could be parsed from the file")
	case errors.Is(err, service.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "File is not a supported chat export")
	case errors.Is(err, service.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, "EMPTY_FILE", "Uploaded file is empty")
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Upload exceeds the size limit")
	case errors.Is(err, service.ErrReportNotFound):
		writeError(w, http.StatusNotFound, "REPORT_NOT_FOUND", "Report not found")
	case errors.Is(err, service.ErrReportExpired):
		writeError(w, http.StatusGone, "REPORT_EXPIRED", "Report has expired")
	case errors.Is(err, service.ErrAnalysisTimeout):
		writeError(w, http.StatusServiceUnavailable, "ANALYSIS_TIMEOUT", "Analysis took too long")
	case errors.Is(err, service.ErrInvalidShareToken):
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Share token is invalid")
	case errors.Is(err, service.ErrShareTokenExpired):
		writeError(w, http.StatusGone, "TOKEN_EXPIRED", "Share token has expired")
	case errors.Is(err, service.ErrInvalidVariant):
		writeError(w, http.StatusBadRequest, "INVALID_VARIANT", "Variant must be free or pro")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
