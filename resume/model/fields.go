package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned when a field name does not match any field of the section.
var ErrUnknownField = errors.New("unknown field")

// PersonalField selects one field of PersonalInfo.
type PersonalField int

const (
	FieldName PersonalField = iota + 1
	FieldEmail
	FieldPhone
	FieldLocation
)

// Valid reports whether f names a PersonalInfo field.
func (f PersonalField) Valid() bool { return f >= FieldName && f <= FieldLocation }

// ExperienceField selects one field of a WorkExperience entry.
type ExperienceField int

const (
	FieldTitle ExperienceField = iota + 1
	FieldCompany
	FieldDuration
	FieldDescription
)

// EducationField selects one field of an Education entry.
type EducationField int

const (
	FieldDegree EducationField = iota + 1
	FieldInstitution
	FieldYear
)

// CertificationField selects one field of a Certification entry.
type CertificationField int

const (
	FieldCertName CertificationField = iota + 1
	FieldIssuer
	FieldDate
)

var personalFields = map[string]PersonalField{
	"name":     FieldName,
	"email":    FieldEmail,
	"phone":    FieldPhone,
	"location": FieldLocation,
}

var experienceFields = map[string]ExperienceField{
	"title":       FieldTitle,
	"company":     FieldCompany,
	"duration":    FieldDuration,
	"description": FieldDescription,
}

var educationFields = map[string]EducationField{
	"degree":      FieldDegree,
	"institution": FieldInstitution,
	"year":        FieldYear,
}

var certificationFields = map[string]CertificationField{
	"name":   FieldCertName,
	"issuer": FieldIssuer,
	"date":   FieldDate,
}

// ParsePersonalField maps a JSON field name to a PersonalField.
func ParsePersonalField(name string) (PersonalField, error) {
	return parseField(personalFields, "personalInfo", name)
}

// ParseExperienceField maps a JSON field name to an ExperienceField.
func ParseExperienceField(name string) (ExperienceField, error) {
	return parseField(experienceFields, "workExperience", name)
}

// ParseEducationField maps a JSON field name to an EducationField.
func ParseEducationField(name string) (EducationField, error) {
	return parseField(educationFields, "education", name)
}

// ParseCertificationField maps a JSON field name to a CertificationField.
func ParseCertificationField(name string) (CertificationField, error) {
	return parseField(certificationFields, "certifications", name)
}

func parseField[F ~int](fields map[string]F, section, name string) (F, error) {
	if f, ok := fields[strings.TrimSpace(name)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s.%s", ErrUnknownField, section, name)
}
