package types

import "strings"

// SkillSeparator joins skills into their canonical free-text form.
const SkillSeparator = ", "

// DeriveSkills converts the free-text skills input into the ordered skill list.
// Segments are split on commas, trimmed and dropped when empty, so
// "React, Node, , Go" yields [React Node Go].
func DeriveSkills(input string) []string {
	parts := strings.Split(input, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		s := strings.TrimSpace(part)
		if s == "" {
			continue
		}
		skills = append(skills, s)
	}
	return skills
}

// JoinSkills renders skills back into the canonical free-text form.
// DeriveSkills(JoinSkills(s)) == s for any s produced by DeriveSkills.
func JoinSkills(skills []string) string {
	return strings.Join(skills, SkillSeparator)
}
