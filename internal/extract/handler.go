package extract

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"resume-review/internal/shared/server/respond"
	"resume-review/internal/shared/telemetry"
)

// DefaultMaxBytes caps the decoded file size.
const DefaultMaxBytes = 10 << 20

// Handler serves POST /extract.
type Handler struct {
	MaxBytes int
}

// NewHandler constructs a Handler. maxBytes <= 0 uses DefaultMaxBytes.
func NewHandler(maxBytes int) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Handler{MaxBytes: maxBytes}
}

// RegisterRoutes attaches the extraction route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/extract", h.extract)
}

type extractRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileData string `json:"fileData" binding:"required"`
}

type extractResponse struct {
	Text       string `json:"text"`
	FileName   string `json:"fileName"`
	Characters int    `json:"characters"`
}

func (h *Handler) extract(c *gin.Context) {
	// base64 grows payloads by a third
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.MaxBytes)*4/3+4096)

	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the size limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName and fileData are required", nil)
		return
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(req.FileData))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileData must be base64", nil)
		return
	}
	if len(data) > h.MaxBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the size limit", nil)
		return
	}
	c.Set("fileName", req.FileName)

	text, err := TextFromBytes(c.Request.Context(), data, "", req.FileName)
	if err != nil {
		telemetry.Warn("extract.failed", map[string]any{
			"file_name":  req.FileName,
			"size_bytes": len(data),
			"error":      err.Error(),
		})
		code := "extraction_failed"
		if errors.Is(err, ErrUnsupported) {
			code = "unsupported_type"
		}
		respond.Error(c, http.StatusUnprocessableEntity, code, err.Error(), nil)
		return
	}

	respond.OK(c, extractResponse{
		Text:       text,
		FileName:   req.FileName,
		Characters: utf8.RuneCountInString(text),
	})
}
