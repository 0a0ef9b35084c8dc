package review

import (
	"sync"
	"time"

	"resume-review/internal/intake"
	"resume-review/resume/model"
)

// Phase is the upload-to-preview state of a session.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhaseResult     Phase = "result"
)

// NoticeKind distinguishes success and error notices.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a dismissible message shown after an action.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

var (
	noticeParsed = Notice{
		Kind:    NoticeSuccess,
		Title:   "Resume Parsed Successfully!",
		Message: "Your resume has been analyzed and key information extracted.",
	}
	noticeParseFailed = Notice{
		Kind:    NoticeError,
		Title:   "Error Processing Resume",
		Message: "Failed to parse the resume. Please try again.",
	}
	noticeSaved = Notice{
		Kind:    NoticeSuccess,
		Title:   "Changes Saved",
		Message: "Your resume information has been updated.",
	}
	noticeExported = Notice{
		Kind:    NoticeSuccess,
		Title:   "Data Exported",
		Message: "Resume data downloaded as JSON file.",
	}
)

// Session is one browser's upload, record and editor state.
type Session struct {
	ID string

	mu         sync.Mutex
	intake     *intake.Intake
	queued     *intake.File
	editor     *Editor
	processing bool
	notice     *Notice
	textResult string
	textBusy   bool
	lastSeen   time.Time
}

func newSession(id string, rules intake.Rules, now time.Time) *Session {
	s := &Session{ID: id, lastSeen: now}
	s.intake = intake.New(rules, s.queue)
	return s
}

// queue receives the accepted file from the intake; Service.Upload hands it
// to the extractor.
func (s *Session) queue(f intake.File) {
	s.queued = &f
}

func (s *Session) takeQueued() (intake.File, bool) {
	if s.queued == nil {
		return intake.File{}, false
	}
	f := *s.queued
	s.queued = nil
	return f, true
}

func (s *Session) touch(now time.Time) {
	s.lastSeen = now
}

func (s *Session) phase() Phase {
	switch {
	case s.processing:
		return PhaseProcessing
	case s.editor != nil:
		return PhaseResult
	default:
		return PhaseIdle
	}
}

// View is an immutable snapshot of a session for rendering.
type View struct {
	SessionID    string            `json:"sessionId"`
	Phase        Phase             `json:"phase"`
	File         *FileView         `json:"file,omitempty"`
	Rejection    *intake.Rejection `json:"rejection,omitempty"`
	Data         *model.ResumeData `json:"data,omitempty"`
	EditMode     string            `json:"editMode"`
	PendingSkill string            `json:"pendingSkill"`
	Version      uint64            `json:"version"`
	Notice       *Notice           `json:"notice,omitempty"`
	TextResult   string            `json:"textResult,omitempty"`
	TextBusy     bool              `json:"textBusy"`
	Accept       []string          `json:"accept"`
}

// FileView describes the selected file.
type FileView struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	// SizeLabel is the size rendered in megabytes.
	SizeLabel string `json:"sizeLabel"`
}

// Editing reports whether section is the open section; templates use it.
func (v View) Editing(section string) bool {
	return v.EditMode != "" && v.EditMode == section
}

// Snapshot returns the current View.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() View {
	v := View{
		SessionID:  s.ID,
		Phase:      s.phase(),
		TextResult: s.textResult,
		TextBusy:   s.textBusy,
		Accept:     s.intake.Rules().Extensions(),
	}
	if f, ok := s.intake.Selected(); ok {
		v.File = &FileView{Name: f.Name, Type: f.DetectedType, Size: f.Size, SizeLabel: f.SizeMB()}
	}
	if rej := s.intake.Err(); rej != nil {
		r := *rej
		v.Rejection = &r
	}
	if s.editor != nil {
		data := s.editor.Data()
		v.Data = &data
		v.EditMode = s.editor.Mode().String()
		v.PendingSkill = s.editor.PendingSkill()
		v.Version = s.editor.Version()
	}
	if s.notice != nil {
		n := *s.notice
		v.Notice = &n
	}
	return v
}
