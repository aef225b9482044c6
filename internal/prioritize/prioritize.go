// Package prioritize scores structured job postings against a user
// profile with configured weights, assigns tiers, and ranks. Scores are
// absolute: adding new jobs never changes existing scores, only ranks.
package prioritize

import (
	"math"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/models"
)

// Tier thresholds on the 0-100 final score.
const (
	tierHighMin     = 80.0
	tierRecommended = 65.0
	tierConsider    = 50.0
)

// mustHaveCap bounds skills_match when a must-have skill is missing.
const mustHaveCap = 0.3

// salaryBonusKey records the informational above-ideal bonus. It is not
// a weighted component: the weighted salary contribution caps at 1.0.
const salaryBonusKey = "salary_bonus"

// Scorer computes priority scores. Build one per run; the constructor
// precomputes the profile and company lookup sets.
type Scorer struct {
	cfg     config.Config
	weights models.ScoringWeights

	profileSkills map[string]struct{}
	mustHave      map[string]struct{}
	reputation    map[string]string // lowercase company -> category
	tier1Cities   map[string]struct{}
	tier2Cities   map[string]struct{}

	now func() time.Time
}

func New(cfg config.Config) *Scorer {
	s := &Scorer{
		cfg:           cfg,
		weights:       cfg.ScoringWeights,
		profileSkills: cfg.UserProfile.SkillSet(),
		mustHave:      cfg.UserProfile.MustHaveSet(),
		reputation:    map[string]string{},
		tier1Cities:   lowerSet(cfg.LocationScoring.Tier1Cities),
		tier2Cities:   lowerSet(cfg.LocationScoring.Tier2Cities),
		now:           time.Now,
	}

	rep := cfg.CompanyReputation
	for category, companies := range map[string][]string{
		"faang":   rep.FAANGCompanies,
		"unicorn": rep.UnicornCompanies,
		"mnc":     rep.MNCCompanies,
		"product": rep.ProductCompanies,
		"startup": rep.StartupCompanies,
		"service": rep.ServiceCompanies,
	} {
		for _, c := range companies {
			c = strings.ToLower(strings.TrimSpace(c))
			if c != "" {
				s.reputation[c] = category
			}
		}
	}
	return s
}

// WithClock overrides the clock used for deadline urgency.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Score computes every component, the weighted final score, and the tier
// for one job posting.
func (s *Scorer) Score(job models.JobPosting) models.Priority {
	components := map[string]float64{
		"skills_match":         s.skillsMatch(job),
		"location_match":       s.locationMatch(job),
		"company_reputation":   s.companyReputation(job),
		"work_mode_preference": s.workModePreference(job),
		"deadline_urgency":     s.deadlineUrgency(job),
		"experience_fit":       s.experienceFit(job),
		"completeness":         clamp01(job.Metadata.CompletenessScore),
	}
	salary, bonus := s.salaryAttractiveness(job)
	components["salary_attractiveness"] = salary

	final := 0.0
	for _, name := range models.ComponentNames {
		final += s.weights[name] * clamp01(components[name])
	}
	final = math.Min(100, math.Max(0, final*100))

	if bonus > 0 {
		components[salaryBonusKey] = bonus
	}
	return models.Priority{
		FinalScore:      round2(final),
		Tier:            Tier(final),
		ComponentScores: components,
	}
}

// Tier buckets a final score.
func Tier(score float64) string {
	switch {
	case score >= tierHighMin:
		return models.TierHighlyRecommended
	case score >= tierRecommended:
		return models.TierRecommended
	case score >= tierConsider:
		return models.TierConsider
	default:
		return models.TierNotRecommended
	}
}

// skillsMatch is the overlap with the profile skill set, capped at 0.3
// when any declared must-have skill is absent from the job.
func (s *Scorer) skillsMatch(job models.JobPosting) float64 {
	jobSkills := lowerSet(job.Requirements.Skills)

	overlap := 0
	for skill := range s.profileSkills {
		if _, ok := jobSkills[skill]; ok {
			overlap++
		}
	}
	score := float64(overlap) / math.Max(1, float64(len(s.profileSkills)))

	for must := range s.mustHave {
		if _, ok := jobSkills[must]; !ok {
			return math.Min(score, mustHaveCap)
		}
	}
	return clamp01(score)
}

func (s *Scorer) locationMatch(job models.JobPosting) float64 {
	if job.Location.WorkMode == models.WorkModeRemote {
		return 1.0
	}
	city := strings.ToLower(strings.TrimSpace(job.Location.City))
	if s.cfg.UserProfile.PrefersLocation(city) {
		return 1.0
	}
	if _, ok := s.tier1Cities[city]; ok {
		return 0.8
	}
	if _, ok := s.tier2Cities[city]; ok {
		return 0.6
	}
	return 0.4
}

// salaryAttractiveness returns the clamped base component and the
// informational above-ideal bonus (0..above_ideal_bonus). The bonus is
// recorded separately and never pushes the weighted contribution past 1.
func (s *Scorer) salaryAttractiveness(job models.JobPosting) (base, bonus float64) {
	sc := s.cfg.SalaryScoring
	lpa, ok := bestSalary(job.Compensation)
	if !ok {
		return sc.MissingSalaryScore, 0
	}

	switch {
	case lpa < sc.MinAcceptableLPA:
		return 0.5, 0
	case lpa < sc.IdealSalaryLPA:
		span := sc.IdealSalaryLPA - sc.MinAcceptableLPA
		if span <= 0 {
			return 1.0, 0
		}
		return 0.5 + 0.5*(lpa-sc.MinAcceptableLPA)/span, 0
	default:
		if sc.IdealSalaryLPA > 0 {
			excess := (lpa - sc.IdealSalaryLPA) / sc.IdealSalaryLPA
			bonus = math.Min(sc.AboveIdealBonus, excess*sc.AboveIdealBonus)
		}
		return 1.0, bonus
	}
}

func (s *Scorer) companyReputation(job models.JobPosting) float64 {
	category := "unknown"
	for _, name := range []string{job.Company.Canonical, job.Company.RawName} {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if c, ok := s.reputation[name]; ok {
			category = c
			break
		}
	}

	if score, ok := s.cfg.CompanyReputation.TierScores[category]; ok {
		return clamp01(score)
	}
	return 0.5
}

func (s *Scorer) workModePreference(job models.JobPosting) float64 {
	mode := job.Location.WorkMode
	if s.cfg.UserProfile.PrefersWorkMode(mode) {
		return 1.0
	}
	switch mode {
	case models.WorkModeHybrid:
		if s.cfg.UserProfile.PrefersWorkMode(models.WorkModeRemote) {
			return 0.9
		}
		return 0.8
	case models.WorkModeRemote:
		return 0.8
	case models.WorkModeOnsite:
		return 0.7
	default:
		return 0.6
	}
}

// deadlineUrgency buckets days-until-deadline. Expired deadlines score
// zero; an absent deadline is the lowest live bucket.
func (s *Scorer) deadlineUrgency(job models.JobPosting) float64 {
	deadline, ok := job.Application.DeadlineDate()
	if !ok {
		return 0.3
	}
	days := deadline.Sub(s.now().Truncate(24 * time.Hour)).Hours() / 24
	switch {
	case days < 0:
		return 0.0
	case days < 3:
		return 1.0
	case days < 7:
		return 0.9
	case days < 14:
		return 0.7
	case days < 30:
		return 0.5
	default:
		return 0.3
	}
}

func (s *Scorer) experienceFit(job models.JobPosting) float64 {
	years := s.cfg.UserProfile.ExperienceYears
	min := job.Requirements.ExperienceMin
	max := job.Requirements.ExperienceMax

	if min == nil {
		return 0.5
	}
	if max == nil {
		// open-ended requirement: meeting the floor is a fit
		if years >= *min {
			return 0.8
		}
		return 0.4
	}

	switch {
	case years >= *min && years <= *max:
		center := (*min + *max) / 2
		if math.Abs(years-center) <= (*max-*min)/4 {
			return 1.0
		}
		return 0.8
	case years > *max && years-*max <= 2:
		return 0.6
	case years > *max:
		return 0.3
	default:
		return 0.4
	}
}

func bestSalary(c models.Compensation) (float64, bool) {
	if c.SalaryMax != nil {
		return *c.SalaryMax, true
	}
	if c.SalaryMin != nil {
		return *c.SalaryMin, true
	}
	return 0, false
}

func lowerSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
