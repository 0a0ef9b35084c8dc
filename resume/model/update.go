package model

import "strings"

// WithPersonalField returns a copy of d with one PersonalInfo field replaced.
func (d ResumeData) WithPersonalField(f PersonalField, value string) ResumeData {
	out := d.Clone()
	switch f {
	case FieldName:
		out.PersonalInfo.Name = value
	case FieldEmail:
		out.PersonalInfo.Email = value
	case FieldPhone:
		out.PersonalInfo.Phone = value
	case FieldLocation:
		out.PersonalInfo.Location = value
	default:
		return d
	}
	return out
}

// WithExperienceField replaces one field of the entry at index i.
// It reports false and returns d unchanged when i is out of range.
func (d ResumeData) WithExperienceField(i int, f ExperienceField, value string) (ResumeData, bool) {
	if i < 0 || i >= len(d.WorkExperience) {
		return d, false
	}
	entry := d.WorkExperience[i]
	switch f {
	case FieldTitle:
		entry.Title = value
	case FieldCompany:
		entry.Company = value
	case FieldDuration:
		entry.Duration = value
	case FieldDescription:
		entry.Description = value
	default:
		return d, false
	}
	out := d.Clone()
	out.WorkExperience[i] = entry
	return out, true
}

// WithEducationField replaces one field of the entry at index i.
func (d ResumeData) WithEducationField(i int, f EducationField, value string) (ResumeData, bool) {
	if i < 0 || i >= len(d.Education) {
		return d, false
	}
	entry := d.Education[i]
	switch f {
	case FieldDegree:
		entry.Degree = value
	case FieldInstitution:
		entry.Institution = value
	case FieldYear:
		entry.Year = value
	default:
		return d, false
	}
	out := d.Clone()
	out.Education[i] = entry
	return out, true
}

// WithCertificationField replaces one field of the entry at index i.
func (d ResumeData) WithCertificationField(i int, f CertificationField, value string) (ResumeData, bool) {
	if i < 0 || i >= len(d.Certifications) {
		return d, false
	}
	entry := d.Certifications[i]
	switch f {
	case FieldCertName:
		entry.Name = value
	case FieldIssuer:
		entry.Issuer = value
	case FieldDate:
		entry.Date = value
	default:
		return d, false
	}
	out := d.Clone()
	out.Certifications[i] = entry
	return out, true
}

// WithSkill appends the trimmed skill. Blank input leaves d unchanged.
// Duplicates are allowed.
func (d ResumeData) WithSkill(skill string) (ResumeData, bool) {
	trimmed := strings.TrimSpace(skill)
	if trimmed == "" {
		return d, false
	}
	out := d.Clone()
	out.Skills = append(out.Skills, trimmed)
	return out, true
}

// WithoutSkill removes the skill at index i, keeping the order of the rest.
func (d ResumeData) WithoutSkill(i int) (ResumeData, bool) {
	if i < 0 || i >= len(d.Skills) {
		return d, false
	}
	out := d.Clone()
	skills := make([]string, 0, len(d.Skills)-1)
	skills = append(skills, d.Skills[:i]...)
	skills = append(skills, d.Skills[i+1:]...)
	out.Skills = skills
	return out, true
}
