package wizard

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-builder/internal/types"
)

// ErrTerminalStep is returned for Next on the final step, which persists
// instead of advancing.
var ErrTerminalStep = errors.New("final step has no next step")

// Transition applies action to (d, step) and returns the draft to carry into
// the resulting step. The input draft is never modified. On error the
// original draft and step are returned.
func Transition(d types.Draft, step Step, action Action) (types.Draft, Step, error) {
	if !step.Valid() {
		return d, step, fmt.Errorf("unknown wizard step %d", int(step))
	}

	switch action {
	case ActionBack:
		if step == StepPersonal {
			return d, step, nil
		}
		return d.Clone(), step - 1, nil
	case ActionNext:
		if step == StepFinal {
			return d, step, ErrTerminalStep
		}
		if err := Validate(d, step); err != nil {
			return d, step, err
		}
		return normalize(d.Clone(), step), step + 1, nil
	default:
		return d, step, fmt.Errorf("unknown wizard action %d", int(action))
	}
}

// normalize tidies the section owned by step before it is forwarded.
func normalize(d types.Draft, step Step) types.Draft {
	if step == StepSkills {
		skills := make([]types.Skill, 0, len(d.Skills))
		for _, s := range d.Skills {
			if blank(s.Name) {
				continue
			}
			s.Level = types.ParseSkillLevel(string(s.Level))
			skills = append(skills, s)
		}
		d.Skills = skills
	}
	return d
}
