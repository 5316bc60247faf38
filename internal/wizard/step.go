// Package wizard drives the linear resume-building flow. A Draft is carried
// through an ordered list of steps; moving forward requires the current step
// to be valid, moving back never does.
package wizard

import "fmt"

// Step is one screen of the wizard.
type Step int

// Steps in wizard order.
const (
	StepPersonal Step = iota
	StepSummary
	StepExperience
	StepEducation
	StepSkills
	StepFinal
)

// Steps lists every step in order.
var Steps = []Step{StepPersonal, StepSummary, StepExperience, StepEducation, StepSkills, StepFinal}

var stepNames = map[Step]string{
	StepPersonal:   "personal",
	StepSummary:    "summary",
	StepExperience: "experience",
	StepEducation:  "education",
	StepSkills:     "skills",
	StepFinal:      "final",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepPersonal && s <= StepFinal
}

// Action is a navigation request.
type Action int

// Navigation actions.
const (
	ActionNext Action = iota
	ActionBack
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionBack:
		return "back"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}
