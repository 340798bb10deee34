package feature_test

import (
	"reflect"
	"testing"

	"github.com/saisrinu135/cleverhire/internal/feature"
	"github.com/saisrinu135/cleverhire/internal/model"
)

// ── Candidate projection ───────────────────────────────────────────────────

func TestBuildCandidate(t *testing.T) {
	p := model.CandidateProfile{
		ID:              "cand-1",
		SkillIDs:        []string{"s-go", "s-python"},
		YearsExperience: 4,
		Location:        &model.GeoPoint{Lat: 1, Lon: 2},
		DesiredSalary:   &model.SalaryRange{Min: 50000, Max: 70000},
		OpenToRemote:    true,
	}

	f := feature.BuildCandidate(p)
	if f.CandidateID != "cand-1" {
		t.Errorf("CandidateID = %q, want cand-1", f.CandidateID)
	}
	if !f.Skills["s-go"] || !f.Skills["s-python"] || len(f.Skills) != 2 {
		t.Errorf("Skills = %v, want {s-go, s-python}", f.Skills)
	}
	if f.Years != 4 || !f.OpenToRemote {
		t.Errorf("Years/OpenToRemote = %v/%v, want 4/true", f.Years, f.OpenToRemote)
	}
	if f.Location != p.Location || f.DesiredSalary != p.DesiredSalary {
		t.Error("Location/DesiredSalary should carry the profile's pointers")
	}
}

// ── Job projection ─────────────────────────────────────────────────────────

func TestBuildJob_SortsAndDeduplicates(t *testing.T) {
	j := model.JobPosting{
		ID:               "job-1",
		RequiredSkillIDs: []string{"s-sql", "s-go", "s-sql", "", "s-go"},
		ExperienceLevel:  model.LevelSenior,
		IsRemote:         true,
	}

	f := feature.BuildJob(j)
	want := []string{"s-go", "s-sql"}
	if !reflect.DeepEqual(f.RequiredSkills, want) {
		t.Errorf("RequiredSkills = %v, want %v", f.RequiredSkills, want)
	}
	if f.Level != model.LevelSenior || !f.Remote {
		t.Errorf("Level/Remote = %v/%v, want SENIOR/true", f.Level, f.Remote)
	}
}

func TestBuildJob_Deterministic(t *testing.T) {
	j := model.JobPosting{RequiredSkillIDs: []string{"b", "a", "c"}}
	first := feature.BuildJob(j)
	second := feature.BuildJob(j)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("BuildJob not deterministic:\n%+v\n%+v", first, second)
	}
}

// ── Completeness ───────────────────────────────────────────────────────────

func TestCompleteness(t *testing.T) {
	cases := []struct {
		name    string
		profile model.CandidateProfile
		want    int
	}{
		{"empty", model.CandidateProfile{}, 0},
		{"years only", model.CandidateProfile{YearsExperience: 2}, 20},
		{"resume and skills", model.CandidateProfile{ResumeText: "x", SkillIDs: []string{"s"}}, 50},
		{
			"full",
			model.CandidateProfile{
				YearsExperience: 5,
				ResumeText:      "x",
				SkillIDs:        []string{"s"},
				Location:        &model.GeoPoint{},
				DesiredSalary:   &model.SalaryRange{Min: 1, Max: 2},
			},
			100,
		},
	}
	for _, tc := range cases {
		if got := feature.Completeness(tc.profile); got != tc.want {
			t.Errorf("%s: Completeness = %d, want %d", tc.name, got, tc.want)
		}
	}
}
