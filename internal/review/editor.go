package review

import (
	"fmt"
	"strings"

	"resume-review/resume/model"
)

// EditMode names the one section currently open for editing.
type EditMode int

const (
	NoEdit EditMode = iota
	EditingPersonal
	EditingSkills
	EditingExperience
	EditingEducation
)

var editModeNames = map[EditMode]string{
	NoEdit:            "",
	EditingPersonal:   "personal",
	EditingSkills:     "skills",
	EditingExperience: "experience",
	EditingEducation:  "education",
}

func (m EditMode) String() string {
	return editModeNames[m]
}

// ParseEditMode maps a section name to an EditMode. The empty string is NoEdit.
func ParseEditMode(raw string) (EditMode, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for mode, n := range editModeNames {
		if n == name {
			return mode, nil
		}
	}
	return NoEdit, fmt.Errorf("%w: section %q", ErrInvalidInput, raw)
}

// Editor owns the working copy of a resume and the edit-mode state.
// It is not safe for concurrent use; a Session serializes access.
type Editor struct {
	data    model.ResumeData
	mode    EditMode
	pending string
	version uint64
}

// NewEditor starts an editor on a private copy of data.
func NewEditor(data model.ResumeData) *Editor {
	return &Editor{data: data.Normalize().Clone()}
}

// Data returns a deep copy of the current record.
func (e *Editor) Data() model.ResumeData { return e.data.Clone() }

func (e *Editor) Mode() EditMode { return e.mode }

func (e *Editor) PendingSkill() string { return e.pending }

// Version increments every time the record is replaced.
func (e *Editor) Version() uint64 { return e.version }

func (e *Editor) replace(next model.ResumeData) {
	e.data = next
	e.version++
}

// UpdatePersonal sets one contact field. An unknown field is a no-op.
func (e *Editor) UpdatePersonal(f model.PersonalField, value string) bool {
	if !f.Valid() {
		return false
	}
	e.replace(e.data.WithPersonalField(f, value))
	return true
}

// UpdateExperience sets one field of the i-th job. Out of range is a no-op.
func (e *Editor) UpdateExperience(i int, f model.ExperienceField, value string) bool {
	next, ok := e.data.WithExperienceField(i, f, value)
	if ok {
		e.replace(next)
	}
	return ok
}

// UpdateEducation sets one field of the i-th education entry. Out of range is a no-op.
func (e *Editor) UpdateEducation(i int, f model.EducationField, value string) bool {
	next, ok := e.data.WithEducationField(i, f, value)
	if ok {
		e.replace(next)
	}
	return ok
}

// AddSkill appends the trimmed value; blank input is ignored.
func (e *Editor) AddSkill(value string) bool {
	next, ok := e.data.WithSkill(value)
	if ok {
		e.replace(next)
	}
	return ok
}

// RemoveSkill drops the i-th skill. Out of range is a no-op.
func (e *Editor) RemoveSkill(i int) bool {
	next, ok := e.data.WithoutSkill(i)
	if ok {
		e.replace(next)
	}
	return ok
}

// SetPendingSkill replaces the add-skill input buffer.
func (e *Editor) SetPendingSkill(value string) { e.pending = value }

// CommitPendingSkill adds the buffered skill. The buffer is cleared only when
// the skill was added.
func (e *Editor) CommitPendingSkill() bool {
	if !e.AddSkill(e.pending) {
		return false
	}
	e.pending = ""
	return true
}

// ToggleEdit opens mode, or closes it when it is already open.
func (e *Editor) ToggleEdit(mode EditMode) {
	if e.mode == mode {
		e.mode = NoEdit
		return
	}
	e.mode = mode
}

// Save leaves edit mode. Values are not validated.
func (e *Editor) Save() { e.mode = NoEdit }
