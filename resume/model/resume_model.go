package model

// ResumeData represents the structured resume payload extracted from an upload.
// Values are replaced, never mutated in place; see the With* methods.
type ResumeData struct {
	PersonalInfo   PersonalInfo     `json:"personalInfo"`
	Skills         []string         `json:"skills"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
	Certifications []Certification  `json:"certifications"`
	Achievements   []string         `json:"achievements"`
}

// PersonalInfo captures contact and identity details.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// WorkExperience represents a work history entry. Slice order is resume order.
type WorkExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Education represents an education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Certification represents a certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// Normalize returns a copy with every section populated, so nil slices
// serialize as [] instead of null.
func (d ResumeData) Normalize() ResumeData {
	out := d.Clone()
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if out.WorkExperience == nil {
		out.WorkExperience = []WorkExperience{}
	}
	if out.Education == nil {
		out.Education = []Education{}
	}
	if out.Certifications == nil {
		out.Certifications = []Certification{}
	}
	if out.Achievements == nil {
		out.Achievements = []string{}
	}
	return out
}

// Clone returns a deep copy of the record.
func (d ResumeData) Clone() ResumeData {
	return ResumeData{
		PersonalInfo:   d.PersonalInfo,
		Skills:         cloneSlice(d.Skills),
		WorkExperience: cloneSlice(d.WorkExperience),
		Education:      cloneSlice(d.Education),
		Certifications: cloneSlice(d.Certifications),
		Achievements:   cloneSlice(d.Achievements),
	}
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
