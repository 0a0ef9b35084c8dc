package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-review/internal/extraction"
	"resume-review/internal/intake"
	"resume-review/internal/shared/metrics"
	"resume-review/internal/shared/telemetry"
	"resume-review/internal/shared/util"
	"resume-review/resume/contract"
	"resume-review/resume/model"
)

// ErrUnstructured is returned when the extractor answered with text only.
var ErrUnstructured = fmt.Errorf("%w: response carried no structured record", extraction.ErrExtractionFailed)

// Service contains the upload, review and export flow for sessions.
type Service struct {
	Repo Repo
	// Extractor produces the structured record for uploads.
	Extractor extraction.Extractor
	// TextExtractor serves the raw-text flow.
	TextExtractor extraction.Extractor
	Now           func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, extractor, textExtractor extraction.Extractor) *Service {
	return &Service{Repo: repo, Extractor: extractor, TextExtractor: textExtractor, Now: time.Now}
}

// Export is a rendered download.
type Export struct {
	FileName string
	Body     []byte
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Session returns the current view of a session, creating it if needed.
func (s *Service) Session(ctx context.Context, sessionID string) (View, error) {
	sess, err := s.Repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return sess.Snapshot(), nil
}

// Upload validates f and, when accepted, runs extraction and opens the editor
// on the result. A rejected file returns a *intake.Rejection and never
// reaches the extractor.
func (s *Service) Upload(ctx context.Context, sessionID string, f intake.File) (View, error) {
	sess, err := s.Repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	if err := sess.intake.Select(f); err != nil {
		view := sess.snapshotLocked()
		sess.mu.Unlock()
		s.logRejection(sessionID, f.Name, err)
		return view, err
	}
	file, _ := sess.takeQueued()
	sess.editor = nil
	sess.notice = nil
	sess.processing = true
	sess.mu.Unlock()

	err = s.process(ctx, sess, file)
	return sess.Snapshot(), err
}

// Reject records a failure that happened while receiving the upload body.
func (s *Service) Reject(ctx context.Context, sessionID, fileName string, cause error) (View, *intake.Rejection, error) {
	sess, err := s.Repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return View{}, nil, err
	}
	sess.mu.Lock()
	rej := sess.intake.Reject(cause)
	view := sess.snapshotLocked()
	sess.mu.Unlock()
	s.logRejection(sessionID, fileName, rej)
	return view, rej, nil
}

func (s *Service) logRejection(sessionID, fileName string, err error) {
	var rej *intake.Rejection
	if !errors.As(err, &rej) {
		return
	}
	metrics.IncIntakeRejected(rej.Code)
	telemetry.Warn("intake.rejected", map[string]any{
		"session_id": sessionID,
		"file_name":  fileName,
		"code":       rej.Code,
	})
}

// process runs the extractor. The processing flag is cleared on every exit path.
func (s *Service) process(ctx context.Context, sess *Session, file intake.File) error {
	defer func() {
		sess.mu.Lock()
		sess.processing = false
		sess.mu.Unlock()
	}()

	fields := map[string]any{
		"session_id":  sess.ID,
		"file_name":   file.Name,
		"file_type":   file.DetectedType,
		"size_bytes":  file.Size,
		"fingerprint": util.Fingerprint(file.Data),
	}
	metrics.IncExtractionStarted()
	telemetry.Info("extraction.started", fields)
	start := time.Now()

	res, err := s.Extractor.Extract(ctx, file)
	if err == nil && !res.Structured() {
		err = ErrUnstructured
	}
	metrics.ObserveExtractionDurationMs(metrics.SinceMillis(start))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch(s.now())
	if err != nil {
		metrics.IncExtractionFailed()
		fields["error"] = err.Error()
		telemetry.Error("extraction.failed", fields)
		n := noticeParseFailed
		sess.notice = &n
		return err
	}
	metrics.IncExtractionCompleted()
	telemetry.Info("extraction.completed", fields)
	sess.editor = NewEditor(*res.Data)
	n := noticeParsed
	sess.notice = &n
	return nil
}

// ExtractText runs the raw-text flow. Failures are reported through the
// displayed text, never as an error.
func (s *Service) ExtractText(ctx context.Context, sessionID string, f intake.File) (View, error) {
	sess, err := s.Repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	detected, rej := sess.intake.Rules().Check(f)
	if rej != nil {
		sess.mu.Unlock()
		s.logRejection(sessionID, f.Name, rej)
		return sess.Snapshot(), rej
	}
	f.DetectedType = detected
	sess.textBusy = true
	sess.textResult = ""
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.textBusy = false
		sess.mu.Unlock()
	}()

	res, err := s.TextExtractor.Extract(ctx, f)
	if err != nil {
		telemetry.Error("extraction.failed", map[string]any{
			"session_id": sessionID,
			"file_name":  f.Name,
			"flow":       "text",
			"error":      err.Error(),
		})
	}
	text := extraction.DisplayText(res, err)

	sess.mu.Lock()
	sess.textResult = text
	sess.touch(s.now())
	sess.textBusy = false
	view := sess.snapshotLocked()
	sess.mu.Unlock()
	return view, nil
}

// RemoveFile clears the selected file and any intake error.
func (s *Service) RemoveFile(ctx context.Context, sessionID string) (View, error) {
	return s.withSession(ctx, sessionID, func(sess *Session) error {
		sess.intake.Remove()
		return nil
	})
}

// Reset discards the record and the selected file.
func (s *Service) Reset(ctx context.Context, sessionID string) (View, error) {
	return s.withSession(ctx, sessionID, func(sess *Session) error {
		sess.intake.Remove()
		sess.editor = nil
		sess.notice = nil
		sess.textResult = ""
		return nil
	})
}

// DismissNotice clears the last notice.
func (s *Service) DismissNotice(ctx context.Context, sessionID string) (View, error) {
	return s.withSession(ctx, sessionID, func(sess *Session) error {
		sess.notice = nil
		return nil
	})
}

// ToggleEdit opens or closes a section.
func (s *Service) ToggleEdit(ctx context.Context, sessionID string, mode EditMode) (View, error) {
	return s.withEditor(ctx, sessionID, func(sess *Session, e *Editor) {
		e.ToggleEdit(mode)
	})
}

// Save closes the open section.
func (s *Service) Save(ctx context.Context, sessionID string) (View, error) {
	return s.withEditor(ctx, sessionID, func(sess *Session, e *Editor) {
		e.Save()
		n := noticeSaved
		sess.notice = &n
	})
}

func (s *Service) UpdatePersonal(ctx context.Context, sessionID string, f model.PersonalField, value string) (View, error) {
	return s.withEditor(ctx, sessionID, func(_ *Session, e *Editor) {
		e.UpdatePersonal(f, value)
	})
}

func (s *Service) UpdateExperience(ctx context.Context, sessionID string, i int, f model.ExperienceField, value string) (View, error) {
	return s.withEditor(ctx, sessionID, func(_ *Session, e *Editor) {
		e.UpdateExperience(i, f, value)
	})
}

func (s *Service) UpdateEducation(ctx context.Context, sessionID string, i int, f model.EducationField, value string) (View, error) {
	return s.withEditor(ctx, sessionID, func(_ *Session, e *Editor) {
		e.UpdateEducation(i, f, value)
	})
}

func (s *Service) AddSkill(ctx context.Context, sessionID, value string) (View, error) {
	return s.withEditor(ctx, sessionID, func(_ *Session, e *Editor) {
		e.AddSkill(value)
	})
}

func (s *Service) RemoveSkill(ctx context.Context, sessionID string, i int) (View, error) {
	return s.withEditor(ctx, sessionID, func(_ *Session, e *Editor) {
		e.RemoveSkill(i)
	})
}

func (s *Service) SetPendingSkill(ctx context.Context, sessionID, value string) (View, error) {
	return s.withEditor(ctx, sessionID, func(_ *Session, e *Editor) {
		e.SetPendingSkill(value)
	})
}

func (s *Service) CommitPendingSkill(ctx context.Context, sessionID string) (View, error) {
	return s.withEditor(ctx, sessionID, func(_ *Session, e *Editor) {
		e.CommitPendingSkill()
	})
}

// Export renders the current record as the download document. The record
// itself is left untouched.
func (s *Service) Export(ctx context.Context, sessionID string) (Export, error) {
	var out Export
	_, err := s.withEditor(ctx, sessionID, func(sess *Session, e *Editor) {
		body, err := contract.Export(e.Data())
		if err != nil {
			telemetry.Error("export.failed", map[string]any{"session_id": sessionID, "error": err.Error()})
			return
		}
		out = Export{FileName: contract.ExportFileName, Body: body}
		n := noticeExported
		sess.notice = &n
	})
	if err != nil {
		return Export{}, err
	}
	if out.Body == nil {
		return Export{}, fmt.Errorf("export session %s: %w", sessionID, contract.ErrInvalidDocument)
	}
	metrics.IncExport()
	return out, nil
}

// Sweep evicts idle sessions and returns how many were dropped.
func (s *Service) Sweep(ttl time.Duration) int {
	evicted := s.Repo.Sweep(s.now(), ttl)
	for _, id := range evicted {
		telemetry.Info("session.evicted", map[string]any{"session_id": id, "ttl": ttl.String()})
	}
	metrics.AddSessionsEvicted(len(evicted))
	return len(evicted)
}

func (s *Service) withSession(ctx context.Context, sessionID string, fn func(*Session) error) (View, error) {
	sess, err := s.Repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := fn(sess); err != nil {
		return sess.snapshotLocked(), err
	}
	return sess.snapshotLocked(), nil
}

func (s *Service) withEditor(ctx context.Context, sessionID string, fn func(*Session, *Editor)) (View, error) {
	return s.withSession(ctx, sessionID, func(sess *Session) error {
		if sess.editor == nil {
			return ErrNoResume
		}
		fn(sess, sess.editor)
		return nil
	})
}
