// Package types provides type definitions for structured data used throughout the resume builder.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// Draft is the resume in progress, accumulated across wizard steps.
type Draft struct {
	Title      string          `json:"title"`
	Personal   PersonalDetails `json:"personal"`
	Summary    string          `json:"summary"`
	Experience []Experience    `json:"experience"`
	Education  []Education     `json:"education"`
	Skills     []Skill         `json:"skills"`
	ThemeColor string          `json:"themeColor"`
	FontSize   string          `json:"fontSize"`
	FontColor  string          `json:"fontColor"`
}

// PersonalDetails holds the contact block at the top of the resume.
type PersonalDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JobTitle  string `json:"jobTitle"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// FullName joins first and last name, skipping blanks.
func (p PersonalDetails) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Experience is a single work history entry.
type Experience struct {
	PositionTitle string `json:"positionTitle"`
	CompanyName   string `json:"companyName"`
	City          string `json:"city"`
	State         string `json:"state"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	WorkSummary   string `json:"workSummary"`
}

// IsComplete reports whether the entry has the fields required to advance past the experience step.
func (e Experience) IsComplete() bool {
	return strings.TrimSpace(e.PositionTitle) != "" && strings.TrimSpace(e.CompanyName) != ""
}

// Education is a single education entry.
type Education struct {
	UniversityName string `json:"universityName"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Description    string `json:"description"`
}

// Skill is a named skill with a proficiency level.
type Skill struct {
	Name  string     `json:"name"`
	Level SkillLevel `json:"level"`
}

// SavedResume is a finalized draft persisted in the local store.
type SavedResume struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Content   Draft     `json:"content"`
}

// Clone returns a deep copy of the draft so callers can mutate it without aliasing slices.
func (d Draft) Clone() Draft {
	out := d
	if d.Experience != nil {
		out.Experience = append([]Experience(nil), d.Experience...)
	}
	if d.Education != nil {
		out.Education = append([]Education(nil), d.Education...)
	}
	if d.Skills != nil {
		out.Skills = append([]Skill(nil), d.Skills...)
	}
	return out
}
