package wizard

import (
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeDraft() types.Draft {
	return types.Draft{
		Title:      "Complete",
		Personal:   types.PersonalDetails{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		Summary:    "Mathematician.",
		Experience: []types.Experience{{PositionTitle: "Engineer", CompanyName: "Acme"}},
		Education:  []types.Education{{UniversityName: "University of London"}},
		Skills:     []types.Skill{{Name: "Math", Level: types.SkillExpert}},
	}
}

func TestTransition_WalksForwardAndBack(t *testing.T) {
	d := completeDraft()
	step := StepPersonal
	var err error

	for _, want := range []Step{StepSummary, StepExperience, StepEducation, StepSkills, StepFinal} {
		d, step, err = Transition(d, step, ActionNext)
		require.NoError(t, err)
		assert.Equal(t, want, step)
	}

	_, _, err = Transition(d, step, ActionNext)
	assert.ErrorIs(t, err, ErrTerminalStep)

	for _, want := range []Step{StepSkills, StepEducation, StepExperience, StepSummary, StepPersonal, StepPersonal} {
		d, step, err = Transition(d, step, ActionBack)
		require.NoError(t, err)
		assert.Equal(t, want, step)
	}
	assert.Equal(t, completeDraft().Personal, d.Personal)
}

func TestTransition_BackSkipsValidation(t *testing.T) {
	d := types.Draft{Experience: []types.Experience{{}}}
	_, step, err := Transition(d, StepExperience, ActionBack)
	require.NoError(t, err)
	assert.Equal(t, StepSummary, step)
}

func TestTransition_SkillsDropsBlankEntries(t *testing.T) {
	d := types.Draft{Skills: []types.Skill{
		{Name: "Go", Level: "expert"},
		{Name: "  "},
		{Name: "SQL", Level: ""},
	}}
	out, step, err := Transition(d, StepSkills, ActionNext)
	require.NoError(t, err)
	assert.Equal(t, StepFinal, step)
	assert.Equal(t, []types.Skill{
		{Name: "Go", Level: types.SkillExpert},
		{Name: "SQL", Level: types.SkillBeginner},
	}, out.Skills)
	assert.Len(t, d.Skills, 3, "input draft is not modified")
}

func TestTransition_DoesNotAliasInput(t *testing.T) {
	d := completeDraft()
	out, _, err := Transition(d, StepPersonal, ActionNext)
	require.NoError(t, err)
	out.Experience[0].CompanyName = "Changed"
	assert.Equal(t, "Acme", d.Experience[0].CompanyName)
}

func TestTransition_UnknownStepOrAction(t *testing.T) {
	_, _, err := Transition(types.Draft{}, Step(42), ActionNext)
	assert.Error(t, err)
	_, _, err = Transition(types.Draft{}, StepSummary, Action(9))
	assert.Error(t, err)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "experience", StepExperience.String())
	assert.Equal(t, "step(9)", Step(9).String())
	assert.False(t, Step(9).Valid())
}

func TestEnter_FallsBackToDefaultDraft(t *testing.T) {
	for _, step := range Steps {
		d := Enter(step, nil)
		assert.Equal(t, DefaultDraft(), d, step.String())
	}

	carried := types.Draft{Title: "Mine"}
	d := Enter(StepFinal, &carried)
	assert.Equal(t, "Mine", d.Title)
	assert.Equal(t, DefaultThemeColor, d.ThemeColor)
	assert.Empty(t, carried.ThemeColor)
}
