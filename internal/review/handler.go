package review

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-review/internal/extraction"
	"resume-review/internal/intake"
	"resume-review/internal/shared/server/middleware"
	"resume-review/internal/shared/server/respond"
	"resume-review/resume/model"
)

// Handler wires the JSON API to the service.
type Handler struct {
	Svc   *Service
	Rules intake.Rules
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, rules intake.Rules) *Handler {
	return &Handler{Svc: svc, Rules: rules}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.session)
	rg.POST("/session/upload", h.upload)
	rg.DELETE("/session/file", h.removeFile)
	rg.POST("/session/reset", h.reset)
	rg.POST("/session/edit", h.toggleEdit)
	rg.POST("/session/save", h.save)
	rg.PATCH("/session/personal", h.updatePersonal)
	rg.PATCH("/session/experience/:index", h.updateExperience)
	rg.PATCH("/session/education/:index", h.updateEducation)
	rg.POST("/session/skills", h.addSkill)
	rg.PUT("/session/skills/pending", h.setPendingSkill)
	rg.POST("/session/skills/pending/commit", h.commitPendingSkill)
	rg.DELETE("/session/skills/:index", h.removeSkill)
	rg.GET("/session/export", h.export)
	rg.DELETE("/session/notice", h.dismissNotice)
	rg.POST("/extract/text", h.extractText)
}

type sectionRequest struct {
	Section string `json:"section"`
}

type fieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type valueRequest struct {
	Value string `json:"value"`
}

func (h *Handler) session(c *gin.Context) {
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.Session(ctx, id)
	})
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	file, err := readUpload(c, h.Rules)
	if err != nil {
		_, rej, svcErr := h.Svc.Reject(c.Request.Context(), sessionID, c.GetString("fileName"), err)
		if svcErr != nil {
			writeError(c, svcErr)
			return
		}
		writeError(c, rej)
		return
	}

	view, err := h.Svc.Upload(c.Request.Context(), sessionID, file)
	c.Set("phase", string(view.Phase))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) extractText(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	file, err := readUpload(c, h.Rules)
	if err != nil {
		writeError(c, intake.Classify(err, h.Rules))
		return
	}
	view, err := h.Svc.ExtractText(c.Request.Context(), sessionID, file)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view)
}

func (h *Handler) removeFile(c *gin.Context) {
	h.reply(c, h.Svc.RemoveFile)
}

func (h *Handler) reset(c *gin.Context) {
	h.reply(c, h.Svc.Reset)
}

func (h *Handler) dismissNotice(c *gin.Context) {
	h.reply(c, h.Svc.DismissNotice)
}

func (h *Handler) save(c *gin.Context) {
	h.reply(c, h.Svc.Save)
}

func (h *Handler) commitPendingSkill(c *gin.Context) {
	h.reply(c, h.Svc.CommitPendingSkill)
}

func (h *Handler) toggleEdit(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	mode, err := ParseEditMode(req.Section)
	if err != nil {
		writeError(c, err)
		return
	}
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.ToggleEdit(ctx, id, mode)
	})
}

func (h *Handler) updatePersonal(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	field, err := model.ParsePersonalField(req.Field)
	if err != nil {
		writeError(c, err)
		return
	}
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.UpdatePersonal(ctx, id, field, req.Value)
	})
}

func (h *Handler) updateExperience(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	field, err := model.ParseExperienceField(req.Field)
	if err != nil {
		writeError(c, err)
		return
	}
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.UpdateExperience(ctx, id, index, field, req.Value)
	})
}

func (h *Handler) updateEducation(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	field, err := model.ParseEducationField(req.Field)
	if err != nil {
		writeError(c, err)
		return
	}
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.UpdateEducation(ctx, id, index, field, req.Value)
	})
}

func (h *Handler) addSkill(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.AddSkill(ctx, id, req.Value)
	})
}

func (h *Handler) setPendingSkill(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.SetPendingSkill(ctx, id, req.Value)
	})
}

func (h *Handler) removeSkill(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	h.reply(c, func(ctx context.Context, id string) (View, error) {
		return h.Svc.RemoveSkill(ctx, id, index)
	})
}

func (h *Handler) export(c *gin.Context) {
	out, err := h.Svc.Export(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.Attachment(c, out.FileName, "application/json", out.Body)
}

func (h *Handler) reply(c *gin.Context, fn func(ctx context.Context, sessionID string) (View, error)) {
	view, err := fn(c.Request.Context(), middleware.SessionIDFromContext(c))
	c.Set("phase", string(view.Phase))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view)
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index must be an integer", nil)
		return 0, false
	}
	return index, true
}

// writeError maps service errors onto the standard error envelope.
func writeError(c *gin.Context, err error) {
	var rej *intake.Rejection
	switch {
	case errors.As(err, &rej):
		status := http.StatusBadRequest
		if rej.Code == intake.CodeTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		respond.Error(c, status, rej.Code, rej.Message, nil)
	case errors.Is(err, ErrNoResume):
		respond.Error(c, http.StatusConflict, "no_resume", "upload a resume first", nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, model.ErrUnknownField):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, extraction.ErrExtractionFailed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusBadGateway, "extraction_failed", extraction.FallbackMessage, nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}
