package wizard

import "github.com/jonathan/resume-builder/internal/types"

// Default presentation settings for a new draft.
const (
	DefaultThemeColor = "#ff6666"
	DefaultFontSize   = "14px"
	DefaultFontColor  = "#000000"
)

// DefaultDraft is the shape a step works on when it is entered without a
// carried draft: blank fields, one empty entry per list section so the form
// has something to render, and the default presentation settings.
func DefaultDraft() types.Draft {
	return types.Draft{
		Experience: []types.Experience{{}},
		Education:  []types.Education{{}},
		Skills:     []types.Skill{{Level: types.SkillBeginner}},
		ThemeColor: DefaultThemeColor,
		FontSize:   DefaultFontSize,
		FontColor:  DefaultFontColor,
	}
}

// Enter returns the draft a step should start from. A nil carried draft
// falls back to DefaultDraft instead of failing.
func Enter(step Step, carried *types.Draft) types.Draft {
	if carried == nil {
		return DefaultDraft()
	}
	d := carried.Clone()
	if step == StepFinal {
		applyPresentationDefaults(&d)
	}
	return d
}

func applyPresentationDefaults(d *types.Draft) {
	if d.ThemeColor == "" {
		d.ThemeColor = DefaultThemeColor
	}
	if d.FontSize == "" {
		d.FontSize = DefaultFontSize
	}
	if d.FontColor == "" {
		d.FontColor = DefaultFontColor
	}
}
