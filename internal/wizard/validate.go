package wizard

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// StepError reports why a step cannot be left with Next.
type StepError struct {
	Step    Step
	Field   string // e.g. "personal.email" or "experience[1].companyName"
	Message string
}

func (e *StepError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s step: %s", e.Step, e.Message)
	}
	return fmt.Sprintf("%s step: %s: %s", e.Step, e.Field, e.Message)
}

// Validate checks the validity predicate of step against d. It returns nil
// when Next is allowed, and the first failing field otherwise.
func Validate(d types.Draft, step Step) error {
	switch step {
	case StepPersonal:
		return validatePersonal(d.Personal)
	case StepSummary, StepFinal:
		return nil
	case StepExperience:
		for i, e := range d.Experience {
			if blank(e.PositionTitle) {
				return &StepError{Step: step, Field: fmt.Sprintf("experience[%d].positionTitle", i), Message: "position title is required"}
			}
			if blank(e.CompanyName) {
				return &StepError{Step: step, Field: fmt.Sprintf("experience[%d].companyName", i), Message: "company name is required"}
			}
		}
		return nil
	case StepEducation:
		for i, e := range d.Education {
			if blank(e.UniversityName) {
				return &StepError{Step: step, Field: fmt.Sprintf("education[%d].universityName", i), Message: "university name is required"}
			}
		}
		return nil
	case StepSkills:
		for _, s := range d.Skills {
			if !blank(s.Name) {
				return nil
			}
		}
		return &StepError{Step: step, Field: "skills", Message: "at least one named skill is required"}
	default:
		return &StepError{Step: step, Message: "unknown step"}
	}
}

// CanAdvance reports whether the Continue control for step is enabled.
func CanAdvance(d types.Draft, step Step) bool {
	return step != StepFinal && Validate(d, step) == nil
}

func validatePersonal(p types.PersonalDetails) error {
	required := []struct {
		field string
		value string
	}{
		{"personal.firstName", p.FirstName},
		{"personal.lastName", p.LastName},
		{"personal.email", p.Email},
	}
	for _, r := range required {
		if blank(r.value) {
			return &StepError{Step: StepPersonal, Field: r.field, Message: "required"}
		}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
