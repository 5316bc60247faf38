package types

import (
	"encoding/json"
	"strings"
)

// SkillLevel is the proficiency rating attached to a skill.
type SkillLevel string

// Skill levels in ascending order of proficiency.
const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillExpert       SkillLevel = "Expert"
)

// SkillLevels lists every valid level in ascending order.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillExpert}

// ParseSkillLevel matches s case-insensitively against the known levels.
// Unknown or empty input maps to SkillBeginner.
func ParseSkillLevel(s string) SkillLevel {
	s = strings.TrimSpace(s)
	for _, level := range SkillLevels {
		if strings.EqualFold(s, string(level)) {
			return level
		}
	}
	return SkillBeginner
}

// Rank returns the 1-based position of the level, used for rating bars in the preview.
func (l SkillLevel) Rank() int {
	for i, level := range SkillLevels {
		if level == l {
			return i + 1
		}
	}
	return 1
}

// UnmarshalJSON normalizes the stored level string.
func (l *SkillLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseSkillLevel(s)
	return nil
}
