package feature

import "github.com/saisrinu135/cleverhire/internal/model"

// Completeness scores how filled-in a candidate profile is, on a 0–100
// scale. Recomputed whenever resume extraction saves text or skills.
func Completeness(p model.CandidateProfile) int {
	score := 0
	if p.YearsExperience > 0 {
		score += 20
	}
	if p.ResumeText != "" {
		score += 25
	}
	if len(p.SkillIDs) > 0 {
		score += 25
	}
	if p.Location != nil {
		score += 15
	}
	if p.DesiredSalary != nil {
		score += 15
	}
	if score > 100 {
		score = 100
	}
	return score
}
