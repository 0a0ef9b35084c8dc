package review

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"resume-review/internal/intake"
	"resume-review/internal/shared/server/middleware"
	"resume-review/internal/shared/server/respond"
	"resume-review/internal/shared/telemetry"
	"resume-review/resume/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages serves the server-rendered upload and review screens. Every form
// post redirects back to the page it came from.
type Pages struct {
	Svc   *Service
	Rules intake.Rules
	tmpl  *template.Template
}

// NewPages parses the embedded templates.
func NewPages(svc *Service, rules intake.Rules) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{Svc: svc, Rules: rules, tmpl: tmpl}, nil
}

// RegisterRoutes attaches the HTML routes.
func (p *Pages) RegisterRoutes(r gin.IRoutes) {
	r.GET("/", p.index)
	r.POST("/upload", p.upload)
	r.POST("/remove", p.action(p.Svc.RemoveFile))
	r.POST("/reset", p.action(p.Svc.Reset))
	r.POST("/dismiss", p.action(p.Svc.DismissNotice))
	r.POST("/edit/:section", p.toggleEdit)
	r.POST("/personal", p.personal)
	r.POST("/experience", p.experience)
	r.POST("/education", p.education)
	r.POST("/skills", p.addSkill)
	r.POST("/skills/:index/remove", p.removeSkill)
	r.GET("/export", p.export)
	r.GET("/text", p.text)
	r.POST("/text", p.extractText)
}

type textPage struct {
	Rejection  *intake.Rejection
	TextBusy   bool
	TextResult string
}

func (p *Pages) render(c *gin.Context, status int, name string, data any) {
	c.Render(status, render.HTML{Template: p.tmpl, Name: name, Data: data})
}

func (p *Pages) index(c *gin.Context) {
	view, err := p.Svc.Session(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unable to load session", nil)
		return
	}
	c.Set("phase", string(view.Phase))
	p.render(c, http.StatusOK, "index", view)
}

func (p *Pages) upload(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionIDFromContext(c)
	file, err := readUpload(c, p.Rules)
	if err != nil {
		_, _, err = p.Svc.Reject(ctx, sessionID, c.GetString("fileName"), err)
	} else {
		_, err = p.Svc.Upload(ctx, sessionID, file)
	}
	p.done(c, "/", err)
}

func (p *Pages) toggleEdit(c *gin.Context) {
	mode, err := ParseEditMode(c.Param("section"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	_, err = p.Svc.ToggleEdit(c.Request.Context(), middleware.SessionIDFromContext(c), mode)
	p.done(c, "/#"+mode.String(), err)
}

var personalForm = []struct {
	key   string
	field model.PersonalField
}{
	{"name", model.FieldName},
	{"email", model.FieldEmail},
	{"phone", model.FieldPhone},
	{"location", model.FieldLocation},
}

func (p *Pages) personal(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionIDFromContext(c)
	for _, pf := range personalForm {
		value, ok := c.GetPostForm(pf.key)
		if !ok {
			continue
		}
		if _, err := p.Svc.UpdatePersonal(ctx, sessionID, pf.field, value); err != nil {
			p.done(c, "/", err)
			return
		}
	}
	_, err := p.Svc.Save(ctx, sessionID)
	p.done(c, "/#personal", err)
}

func (p *Pages) experience(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionIDFromContext(c)
	for _, name := range []string{"title", "company", "duration", "description"} {
		field, err := model.ParseExperienceField(name)
		if err != nil {
			p.done(c, "/", err)
			return
		}
		for i, value := range c.PostFormArray(name) {
			if _, err := p.Svc.UpdateExperience(ctx, sessionID, i, field, value); err != nil {
				p.done(c, "/", err)
				return
			}
		}
	}
	_, err := p.Svc.Save(ctx, sessionID)
	p.done(c, "/#experience", err)
}

func (p *Pages) education(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionIDFromContext(c)
	for _, name := range []string{"degree", "institution", "year"} {
		field, err := model.ParseEducationField(name)
		if err != nil {
			p.done(c, "/", err)
			return
		}
		for i, value := range c.PostFormArray(name) {
			if _, err := p.Svc.UpdateEducation(ctx, sessionID, i, field, value); err != nil {
				p.done(c, "/", err)
				return
			}
		}
	}
	_, err := p.Svc.Save(ctx, sessionID)
	p.done(c, "/#education", err)
}

func (p *Pages) addSkill(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := middleware.SessionIDFromContext(c)
	if _, err := p.Svc.SetPendingSkill(ctx, sessionID, c.PostForm("value")); err != nil {
		p.done(c, "/", err)
		return
	}
	_, err := p.Svc.CommitPendingSkill(ctx, sessionID)
	p.done(c, "/#skills", err)
}

func (p *Pages) removeSkill(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index must be an integer", nil)
		return
	}
	_, err = p.Svc.RemoveSkill(c.Request.Context(), middleware.SessionIDFromContext(c), index)
	p.done(c, "/#skills", err)
}

func (p *Pages) export(c *gin.Context) {
	out, err := p.Svc.Export(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		p.done(c, "/", err)
		return
	}
	respond.Attachment(c, out.FileName, "application/json", out.Body)
}

func (p *Pages) text(c *gin.Context) {
	view, err := p.Svc.Session(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unable to load session", nil)
		return
	}
	p.render(c, http.StatusOK, "text", textPage{TextBusy: view.TextBusy, TextResult: view.TextResult})
}

func (p *Pages) extractText(c *gin.Context) {
	file, err := readUpload(c, p.Rules)
	if err == nil {
		_, err = p.Svc.ExtractText(c.Request.Context(), middleware.SessionIDFromContext(c), file)
	}
	var rej *intake.Rejection
	if err != nil && !errors.As(err, &rej) {
		rej = intake.Classify(err, p.Rules)
	}
	if rej != nil {
		p.render(c, http.StatusBadRequest, "text", textPage{Rejection: rej})
		return
	}
	c.Redirect(http.StatusSeeOther, "/text")
}

func (p *Pages) action(fn func(ctx context.Context, sessionID string) (View, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, err := fn(c.Request.Context(), middleware.SessionIDFromContext(c))
		p.done(c, "/", err)
	}
}

// done redirects back after a form post. Outcomes the page can show itself
// (rejections, notices, missing record) are not errors at this level.
func (p *Pages) done(c *gin.Context, target string, err error) {
	if err != nil {
		var rej *intake.Rejection
		if !errors.As(err, &rej) && !errors.Is(err, ErrNoResume) {
			telemetry.Warn("page.action_failed", map[string]any{
				"session_id": middleware.SessionIDFromContext(c),
				"path":       c.Request.URL.Path,
				"error":      err.Error(),
			})
		}
	}
	c.Redirect(http.StatusSeeOther, target)
}
