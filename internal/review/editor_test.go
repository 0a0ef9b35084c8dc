package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-review/resume/model"
)

func TestParseEditMode(t *testing.T) {
	tests := []struct {
		in      string
		want    EditMode
		wantErr bool
	}{
		{in: "", want: NoEdit},
		{in: "personal", want: EditingPersonal},
		{in: " Skills ", want: EditingSkills},
		{in: "experience", want: EditingExperience},
		{in: "education", want: EditingEducation},
		{in: "certifications", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseEditMode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if tt.want != NoEdit {
			assert.Equal(t, tt.want, mustParse(t, got.String()))
		}
	}
}

func mustParse(t *testing.T, s string) EditMode {
	t.Helper()
	m, err := ParseEditMode(s)
	require.NoError(t, err)
	return m
}

func TestToggleEditOneSectionAtATime(t *testing.T) {
	e := NewEditor(model.Sample())
	assert.Equal(t, NoEdit, e.Mode())

	e.ToggleEdit(EditingPersonal)
	assert.Equal(t, EditingPersonal, e.Mode())

	e.ToggleEdit(EditingSkills)
	assert.Equal(t, EditingSkills, e.Mode())

	e.ToggleEdit(EditingSkills)
	assert.Equal(t, NoEdit, e.Mode())

	e.ToggleEdit(EditingEducation)
	e.Save()
	assert.Equal(t, NoEdit, e.Mode())
}

func TestEditorUpdatesReplaceRecord(t *testing.T) {
	e := NewEditor(model.Sample())
	before := e.Data()
	v0 := e.Version()

	assert.True(t, e.UpdatePersonal(model.FieldName, "Jane Roe"))
	assert.Equal(t, "Jane Roe", e.Data().PersonalInfo.Name)
	assert.Equal(t, "John Doe", before.PersonalInfo.Name)
	assert.Greater(t, e.Version(), v0)

	assert.True(t, e.UpdateExperience(1, model.FieldCompany, "Acme"))
	assert.Equal(t, "Acme", e.Data().WorkExperience[1].Company)
	assert.NotEqual(t, "Acme", before.WorkExperience[1].Company)

	assert.True(t, e.UpdateEducation(0, model.FieldYear, "2020"))
	assert.Equal(t, "2020", e.Data().Education[0].Year)
}

func TestEditorOutOfRangeIsNoOp(t *testing.T) {
	e := NewEditor(model.Sample())
	v := e.Version()
	data := e.Data()

	assert.False(t, e.UpdateExperience(3, model.FieldTitle, "x"))
	assert.False(t, e.UpdateExperience(-1, model.FieldTitle, "x"))
	assert.False(t, e.UpdateEducation(1, model.FieldDegree, "x"))
	assert.False(t, e.RemoveSkill(10))
	assert.False(t, e.RemoveSkill(-1))

	assert.Equal(t, v, e.Version())
	assert.Equal(t, data, e.Data())
}

func TestEditorSkills(t *testing.T) {
	e := NewEditor(model.Sample())
	n := len(e.Data().Skills)

	assert.False(t, e.AddSkill("   "))
	assert.Len(t, e.Data().Skills, n)

	assert.True(t, e.AddSkill("  Rust "))
	skills := e.Data().Skills
	require.Len(t, skills, n+1)
	assert.Equal(t, "Rust", skills[n])

	first := skills[0]
	second := skills[1]
	assert.True(t, e.RemoveSkill(0))
	assert.Equal(t, second, e.Data().Skills[0])
	assert.NotContains(t, e.Data().Skills, first)
}

func TestCommitPendingSkillClearsOnlyOnSuccess(t *testing.T) {
	e := NewEditor(model.Sample())

	e.SetPendingSkill("  ")
	assert.False(t, e.CommitPendingSkill())
	assert.Equal(t, "  ", e.PendingSkill())

	e.SetPendingSkill("GraphQL")
	assert.True(t, e.CommitPendingSkill())
	assert.Equal(t, "", e.PendingSkill())
	assert.Contains(t, e.Data().Skills, "GraphQL")
}

func TestEditorDataIsACopy(t *testing.T) {
	e := NewEditor(model.Sample())
	d := e.Data()
	d.Skills[0] = "mutated"
	d.WorkExperience[0].Title = "mutated"
	assert.NotEqual(t, "mutated", e.Data().Skills[0])
	assert.NotEqual(t, "mutated", e.Data().WorkExperience[0].Title)
}

func TestEditorUnknownPersonalFieldKeepsVersion(t *testing.T) {
	e := NewEditor(model.Sample())
	v0 := e.Version()

	assert.False(t, e.UpdatePersonal(model.PersonalField(0), "x"))
	assert.False(t, e.UpdatePersonal(model.PersonalField(99), "x"))
	assert.Equal(t, v0, e.Version())
	assert.Equal(t, "John Doe", e.Data().PersonalInfo.Name)
}
