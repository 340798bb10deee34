// Package feature projects domain entities into the flat shapes consumed by
// the scorer. Projections are deterministic and do no I/O: resume text is
// extracted and skills are normalized at profile-save time, never at score
// time, so scoring stays synchronous and side-effect free.
package feature

import (
	"sort"

	"github.com/saisrinu135/cleverhire/internal/model"
)

// CandidateFeatures is the scorer-ready view of a candidate profile.
type CandidateFeatures struct {
	CandidateID   string
	Skills        map[string]bool // canonical skill ids
	Years         float64
	Location      *model.GeoPoint
	DesiredSalary *model.SalaryRange
	OpenToRemote  bool
}

// JobFeatures is the scorer-ready view of a job posting.
type JobFeatures struct {
	JobID          string
	RequiredSkills []string // canonical skill ids, sorted, deduplicated
	Level          model.ExperienceLevel
	Location       *model.GeoPoint
	Remote         bool
	Salary         *model.SalaryRange
}

// BuildCandidate projects a profile into its feature set.
func BuildCandidate(p model.CandidateProfile) CandidateFeatures {
	skills := make(map[string]bool, len(p.SkillIDs))
	for _, id := range p.SkillIDs {
		skills[id] = true
	}
	return CandidateFeatures{
		CandidateID:   p.ID,
		Skills:        skills,
		Years:         p.YearsExperience,
		Location:      p.Location,
		DesiredSalary: p.DesiredSalary,
		OpenToRemote:  p.OpenToRemote,
	}
}

// BuildJob projects a posting into its feature set.
func BuildJob(j model.JobPosting) JobFeatures {
	seen := make(map[string]bool, len(j.RequiredSkillIDs))
	required := make([]string, 0, len(j.RequiredSkillIDs))
	for _, id := range j.RequiredSkillIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		required = append(required, id)
	}
	sort.Strings(required)

	return JobFeatures{
		JobID:          j.ID,
		RequiredSkills: required,
		Level:          j.ExperienceLevel,
		Location:       j.Location,
		Remote:         j.IsRemote,
		Salary:         j.Salary,
	}
}
