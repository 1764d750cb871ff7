package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/IA-Ben/ode-islands-transcoder/internal/adapter/http/validation"
	"github.com/IA-Ben/ode-islands-transcoder/internal/domain"
	"github.com/IA-Ben/ode-islands-transcoder/internal/infrastructure/logger"
	"github.com/IA-Ben/ode-islands-transcoder/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxJSONBody     = 64 << 10
	maxFormField    = 64
	sniffLen        = 512
	formOverhead    = 1 << 20
	contentTypeJSON = "application/json"
)

type StatusService interface {
	Status(ctx context.Context, videoID string) (domain.StatusReport, error)
	Batch(ctx context.Context, ids []string) (map[string]domain.StatusReport, error)
}

type UploadService interface {
	Upload(ctx context.Context, req service.UploadRequest) (*service.UploadResult, error)
	Constraints() domain.UploadConstraints
}

// ProcessIntake accepts dispatch requests on the compute side.
type ProcessIntake interface {
	Accept(ctx context.Context, req domain.ProcessRequest) (domain.DispatchMessage, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	status  StatusService
	uploads UploadService
	intake  ProcessIntake
	health  HealthChecker
	version string
	log     zerolog.Logger
}

func NewHandlers(status StatusService, uploads UploadService, intake ProcessIntake, health HealthChecker, version string) *Handlers {
	return &Handlers{
		status:  status,
		uploads: uploads,
		intake:  intake,
		health:  health,
		version: version,
		log:     logger.WithComponent("http"),
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	VideoID string `json:"videoId,omitempty"`
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

// writeServiceError maps domain errors to status codes. Anything unexpected
// is logged and reported as a bare 500.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr    *domain.ValidationError
		maxErr  *http.MaxBytesError
		dispErr *domain.DispatchError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, domain.ErrBatchTooLarge), errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &dispErr):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "dispatch failed: " + dispErr.Err.Error(), VideoID: dispErr.VideoID})
	case errors.Is(err, context.Canceled):
		// client went away; nothing useful to write
	default:
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return &domain.ValidationError{Field: "body", Reason: "invalid JSON"}
	}
	return nil
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok", "version": h.version}
		if h.health != nil {
			if err := h.health.HealthCheck(r.Context()); err != nil {
				body["status"] = "degraded"
				body["error"] = err.Error()
				writeJSON(w, http.StatusServiceUnavailable, body)
				return
			}
		}
		writeJSON(w, http.StatusOK, body)
	}
}

// videoIDParam returns the unescaped {id} route parameter, so encoded
// separators are caught by id validation.
func videoIDParam(r *http.Request) (string, error) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil {
		return "", &domain.ValidationError{Field: "videoId", Reason: "invalid escaping"}
	}
	return id, nil
}

func (h *Handlers) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := videoIDParam(r)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		report, err := h.status.Status(r.Context(), id)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (h *Handlers) BatchStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.BatchStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		if len(req.VideoIDs) == 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "videoIds must not be empty", Field: "videoIds"})
			return
		}
		results, err := h.status.Batch(r.Context(), req.VideoIDs)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

// Process is the target of the http dispatch strategy.
func (h *Handlers) Process() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.ProcessRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		msg, err := h.intake.Accept(r.Context(), req)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		h.log.Info().Str("video_id", msg.VideoID).Str("orientation", string(msg.Orientation)).Msg("job accepted")
		writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true, "video_id": msg.VideoID})
	}
}

// Upload reads a multipart form as a stream. The size and orientation fields
// must precede the file part; the file's leading bytes are sniffed before
// anything is written to disk.
func (h *Handlers) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		constraints := h.uploads.Constraints()
		if constraints.MaxSizeBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, constraints.MaxSizeBytes+formOverhead)
		}

		mr, err := r.MultipartReader()
		if err != nil {
			writeError(w, http.StatusBadRequest, "expected multipart/form-data")
			return
		}

		var req service.UploadRequest
		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing file part", Field: "file"})
				return
			}
			if err != nil {
				h.writeServiceError(w, r, uploadReadError(err))
				return
			}

			switch part.FormName() {
			case "size":
				v, err := readField(part)
				if err == nil {
					req.Size, err = strconv.ParseInt(v, 10, 64)
				}
				if err != nil {
					writeJSON(w, http.StatusBadRequest, errorBody{Error: "size must be an integer", Field: "size"})
					return
				}
			case "orientation":
				v, err := readField(part)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid orientation", Field: "orientation"})
					return
				}
				req.Orientation = domain.Orientation(v)
			case "file":
				h.storeUpload(w, r, part, req)
				return
			default:
				_, _ = io.Copy(io.Discard, part)
			}
		}
	}
}

func (h *Handlers) storeUpload(w http.ResponseWriter, r *http.Request, part *multipart.Part, req service.UploadRequest) {
	req.Filename = validation.SanitizeFilename(part.FileName())
	if req.Size <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "size field must precede the file", Field: "size"})
		return
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(part, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		h.writeServiceError(w, r, uploadReadError(err))
		return
	}
	head = head[:n]

	mime, ok, err := validation.ValidateMagicBytes(bytes.NewReader(head), h.uploads.Constraints().AllowedMIME)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !ok {
		h.log.Warn().Str("filename", logger.SanitizeForLog(req.Filename)).Str("detected", mime).Msg("upload rejected by content sniffing")
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Error: validation.ErrDisallowedFileType.Error() + ": " + mime, Field: "file"})
		return
	}
	req.MIME = mime
	req.Body = io.MultiReader(bytes.NewReader(head), part)

	res, err := h.uploads.Upload(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, uploadReadError(err))
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

func readField(part io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxFormField+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxFormField {
		return "", errors.New("field too long")
	}
	return strings.TrimSpace(string(data)), nil
}

// uploadReadError turns a truncated or oversized body into a client error.
func uploadReadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return &domain.ValidationError{Field: "file", Reason: "upload body ended early"}
	}
	return err
}
