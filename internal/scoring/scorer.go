// Package scoring computes the multi-dimensional match score for one
// (candidate, job) feature pair.
//
// Score is a pure function: no I/O, no randomness, no error path. Missing
// inputs degrade to neutral scores instead of failing, so every well-formed
// pair produces a result. Identical inputs always yield identical outputs.
package scoring

import (
	"math"

	"github.com/saisrinu135/cleverhire/internal/feature"
	"github.com/saisrinu135/cleverhire/internal/model"
)

// Weights distributes the aggregate across the four sub-scores.
// The four values must sum to 100.
type Weights struct {
	Skill      float64
	Experience float64
	Location   float64
	Salary     float64
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Skill + w.Experience + w.Location + w.Salary
}

// Params holds the scoring constants. These come from configuration — they
// are tunable product knobs, not derived truths.
type Params struct {
	Weights Weights

	// MaxDistanceKm is the great-circle distance at which the location
	// score reaches 0.
	MaxDistanceKm float64

	// SalaryMaxGap, when positive, is the absolute gap between salary
	// ranges at which the salary score reaches 0. When zero, the cap is
	// SalaryGapFraction of the job's midpoint salary instead.
	SalaryMaxGap      int
	SalaryGapFraction float64

	// MinYears maps each experience level to the years of experience that
	// earn a full experience score.
	MinYears map[model.ExperienceLevel]float64
}

// DefaultParams returns the stock configuration: 40/25/15/20 weights, 100 km
// radius, gap cap at half the job's midpoint salary.
func DefaultParams() Params {
	return Params{
		Weights:           Weights{Skill: 40, Experience: 25, Location: 15, Salary: 20},
		MaxDistanceKm:     100,
		SalaryGapFraction: 0.5,
		MinYears: map[model.ExperienceLevel]float64{
			model.LevelEntry:     0,
			model.LevelMid:       3,
			model.LevelSenior:    6,
			model.LevelExecutive: 10,
		},
	}
}

// Score computes the four sub-scores, the breakdown, and the weighted
// aggregate for one pair. All scores are clamped to [0,100].
func Score(c feature.CandidateFeatures, j feature.JobFeatures, p Params) model.ScoreResult {
	var res model.ScoreResult
	res.Breakdown.JobRemote = j.Remote

	res.SkillScore = skillScore(c, j, &res.Breakdown)
	res.ExperienceScore = experienceScore(c, j, p, &res.Breakdown)
	res.LocationScore = locationScore(c, j, p, &res.Breakdown)
	res.SalaryScore = salaryScore(c, j, p, &res.Breakdown)

	res.OverallScore = clamp((p.Weights.Skill*res.SkillScore +
		p.Weights.Experience*res.ExperienceScore +
		p.Weights.Location*res.LocationScore +
		p.Weights.Salary*res.SalaryScore) / 100)

	return res
}

// skillScore is the fraction of required skills the candidate holds.
// A job with no required skills scores 100.
func skillScore(c feature.CandidateFeatures, j feature.JobFeatures, b *model.Breakdown) float64 {
	b.MatchedSkills = []string{}
	b.MissingSkills = []string{}
	if len(j.RequiredSkills) == 0 {
		return 100
	}
	for _, id := range j.RequiredSkills { // already sorted
		if c.Skills[id] {
			b.MatchedSkills = append(b.MatchedSkills, id)
		} else {
			b.MissingSkills = append(b.MissingSkills, id)
		}
	}
	return clamp(100 * float64(len(b.MatchedSkills)) / float64(len(j.RequiredSkills)))
}

// experienceScore is 100 at or above the level's minimum years, decaying
// linearly to 0 at zero years below it.
func experienceScore(c feature.CandidateFeatures, j feature.JobFeatures, p Params, b *model.Breakdown) float64 {
	required := p.MinYears[j.Level]
	b.ExperienceDelta = c.Years - required
	if required <= 0 || c.Years >= required {
		return 100
	}
	if c.Years <= 0 {
		return 0
	}
	return clamp(100 * c.Years / required)
}

// locationScore is 100 for remote jobs and for pairs with missing
// coordinates (no penalty for missing data); otherwise it decays linearly
// with great-circle distance, reaching 0 at MaxDistanceKm.
func locationScore(c feature.CandidateFeatures, j feature.JobFeatures, p Params, b *model.Breakdown) float64 {
	if c.Location != nil && j.Location != nil {
		d := haversineKm(*c.Location, *j.Location)
		b.DistanceKm = &d
	}
	if j.Remote {
		return 100
	}
	if b.DistanceKm == nil {
		return 100
	}
	if p.MaxDistanceKm <= 0 || *b.DistanceKm >= p.MaxDistanceKm {
		return 0
	}
	return clamp(100 * (1 - *b.DistanceKm/p.MaxDistanceKm))
}

// salaryScore is 100 when either side omits a range or the ranges overlap;
// otherwise it decays linearly with the gap between the nearest range edges,
// reaching 0 at the configured maximum gap.
func salaryScore(c feature.CandidateFeatures, j feature.JobFeatures, p Params, b *model.Breakdown) float64 {
	if c.DesiredSalary == nil || j.Salary == nil {
		return 100
	}

	gap := rangeGap(*c.DesiredSalary, *j.Salary)
	b.SalaryGap = &gap
	if gap == 0 {
		return 100
	}

	maxGap := float64(p.SalaryMaxGap)
	if maxGap <= 0 {
		maxGap = p.SalaryGapFraction * j.Salary.Midpoint()
	}
	if maxGap <= 0 || float64(gap) >= maxGap {
		return 0
	}
	return clamp(100 * (1 - float64(gap)/maxGap))
}

// rangeGap returns the distance between the nearest edges of two salary
// ranges, 0 when they overlap.
func rangeGap(a, b model.SalaryRange) int {
	if a.Min > b.Max {
		return a.Min - b.Max
	}
	if b.Min > a.Max {
		return b.Min - a.Max
	}
	return 0
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance between two coordinates.
func haversineKm(a, b model.GeoPoint) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// clamp bounds a score to [0,100].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
