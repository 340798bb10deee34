package scoring_test

import (
	"reflect"
	"testing"

	"github.com/saisrinu135/cleverhire/internal/feature"
	"github.com/saisrinu135/cleverhire/internal/model"
	"github.com/saisrinu135/cleverhire/internal/scoring"
)

// ── Bounds ─────────────────────────────────────────────────────────────────

func TestScore_AllScoresWithinBounds(t *testing.T) {
	// Sweep a grid of feature combinations and assert every score lands in
	// [0,100], aggregate included.
	locations := []*model.GeoPoint{nil, {Lat: 48.85, Lon: 2.35}, {Lat: -33.86, Lon: 151.2}}
	salaries := []*model.SalaryRange{nil, {Min: 0, Max: 0}, {Min: 50000, Max: 60000}, {Min: 300000, Max: 400000}}
	years := []float64{0, 1.5, 7, 42}
	skillSets := [][]string{nil, {"go"}, {"go", "python", "sql"}}

	p := scoring.DefaultParams()
	j := feature.JobFeatures{
		RequiredSkills: []string{"go", "sql"},
		Level:          model.LevelSenior,
		Location:       &model.GeoPoint{Lat: 48.85, Lon: 2.35},
		Salary:         &model.SalaryRange{Min: 80000, Max: 100000},
	}

	for _, loc := range locations {
		for _, sal := range salaries {
			for _, y := range years {
				for _, sk := range skillSets {
					c := candidate(sk)
					c.Location = loc
					c.DesiredSalary = sal
					c.Years = y

					res := scoring.Score(c, j, p)
					for name, v := range map[string]float64{
						"skill":      res.SkillScore,
						"experience": res.ExperienceScore,
						"location":   res.LocationScore,
						"salary":     res.SalaryScore,
						"overall":    res.OverallScore,
					} {
						if v < 0 || v > 100 {
							t.Errorf("%s score out of bounds: %v (loc=%v sal=%v years=%v skills=%v)",
								name, v, loc, sal, y, sk)
						}
					}
				}
			}
		}
	}
}

// ── Monotonicity ───────────────────────────────────────────────────────────

func TestScore_SkillScoreMonotonicOnAddedSkill(t *testing.T) {
	// Adding a matched required skill without removing others never
	// decreases the skill score.
	j := feature.JobFeatures{RequiredSkills: []string{"go", "python", "sql"}}
	p := scoring.DefaultParams()

	held := []string{}
	prev := scoring.Score(candidate(held), j, p).SkillScore
	for _, add := range []string{"go", "python", "sql"} {
		held = append(held, add)
		got := scoring.Score(candidate(held), j, p).SkillScore
		if got < prev {
			t.Errorf("skill score decreased after adding %q: %v → %v", add, prev, got)
		}
		prev = got
	}
	if prev != 100 {
		t.Errorf("skill score with all required skills = %v, want 100", prev)
	}
}

// ── Symmetry ───────────────────────────────────────────────────────────────

func TestScore_LocationSymmetricInDistance(t *testing.T) {
	a := model.GeoPoint{Lat: 48.8566, Lon: 2.3522}
	b := model.GeoPoint{Lat: 48.9, Lon: 2.5}
	p := scoring.DefaultParams()

	c1 := candidate(nil)
	c1.Location = &a
	j1 := feature.JobFeatures{Location: &b}

	c2 := candidate(nil)
	c2.Location = &b
	j2 := feature.JobFeatures{Location: &a}

	s1 := scoring.Score(c1, j1, p).LocationScore
	s2 := scoring.Score(c2, j2, p).LocationScore
	if s1 != s2 {
		t.Errorf("location score not symmetric: (A,B)=%v (B,A)=%v", s1, s2)
	}
}

// ── Idempotence ────────────────────────────────────────────────────────────

func TestScore_Idempotent(t *testing.T) {
	c := candidate([]string{"go", "python"})
	c.Years = 4.5
	c.Location = &model.GeoPoint{Lat: 48.8566, Lon: 2.3522}
	c.DesiredSalary = &model.SalaryRange{Min: 70000, Max: 90000}
	j := feature.JobFeatures{
		RequiredSkills: []string{"go", "sql"},
		Level:          model.LevelMid,
		Location:       &model.GeoPoint{Lat: 48.9, Lon: 2.4},
		Salary:         &model.SalaryRange{Min: 60000, Max: 80000},
	}
	p := scoring.DefaultParams()

	first := scoring.Score(c, j, p)
	second := scoring.Score(c, j, p)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different outputs:\n%+v\n%+v", first, second)
	}
}
