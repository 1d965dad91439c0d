// Package types provides type definitions for structured data used throughout the resume rewrite service.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeData is the structured résumé extracted by the analysis and edited by the user.
// List order is rendering order.
type ResumeData struct {
	PersonalInfo *PersonalInfo `json:"personalInfo,omitempty"`
	Education    []Education   `json:"education,omitempty" validate:"omitempty,dive"`
	Skills       *Skills       `json:"skills,omitempty"`
	Experience   []Experience  `json:"experience,omitempty" validate:"omitempty,dive"`
	Projects     []Project     `json:"projects,omitempty" validate:"omitempty,dive"`
}

// PersonalInfo holds the header block of the résumé
type PersonalInfo struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Education is a single school entry
type Education struct {
	School string `json:"school"`
	Date   string `json:"date"`
	Degree string `json:"degree"`
	GPA    string `json:"gpa"`
}

// Skills holds comma-style free text per category
type Skills struct {
	Languages  string `json:"languages"`
	Frameworks string `json:"frameworks"`
	Tools      string `json:"tools"`
}

// IsEmpty reports whether no skill category carries text
func (s *Skills) IsEmpty() bool {
	return s == nil || (s.Languages == "" && s.Frameworks == "" && s.Tools == "")
}

// Experience is a single work history entry
type Experience struct {
	Title        string        `json:"title"`
	Company      string        `json:"company"`
	Date         string        `json:"date"`
	Location     string        `json:"location"`
	Summary      string        `json:"summary"`
	BulletPoints []BulletPoint `json:"bulletPoints" validate:"omitempty,dive"`
}

// Project is a single project entry
type Project struct {
	Title        string        `json:"title"`
	Link         string        `json:"link"`
	Date         string        `json:"date"`
	Summary      string        `json:"summary"`
	Location     string        `json:"location"`
	BulletPoints []BulletPoint `json:"bulletPoints" validate:"omitempty,dive"`
}

// BulletPoint is one achievement line with its original and suggested wording
type BulletPoint struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
	Accepted bool   `json:"accepted"`
}

// Text returns the wording that must appear in the rendered document:
// the improved text once accepted, otherwise the original.
func (b BulletPoint) Text() string {
	if b.Accepted {
		return b.Improved
	}
	return b.Original
}
