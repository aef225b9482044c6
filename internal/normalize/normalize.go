// Package normalize canonicalizes extracted job fields against the
// configured synonym tables and computes per-record completeness.
package normalize

import (
	"strings"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/models"
)

// Completeness score composition: required fields dominate.
const (
	requiredWeight  = 0.6
	importantWeight = 0.4
)

// Normalizer maps raw extracted strings to canonical forms. Unknown terms
// pass through lowercased and trimmed.
type Normalizer struct {
	cfg config.Config
}

func New(cfg config.Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

// Apply canonicalizes every field of a draft in place and fills in the
// completeness score. Records below min_completeness_score are flagged,
// not dropped; filtering is a report-level concern.
func (n *Normalizer) Apply(job *models.JobPosting) {
	if job.Company.RawName != "" {
		job.Company.Canonical = n.CanonicalCompany(job.Company.RawName)
	}

	job.Position.Title = clean(job.Position.Title)

	skills := make([]string, 0, len(job.Requirements.Skills))
	seen := map[string]struct{}{}
	for _, s := range job.Requirements.Skills {
		cs := n.CanonicalSkill(s)
		if _, dup := seen[cs]; dup || cs == "" {
			continue
		}
		seen[cs] = struct{}{}
		skills = append(skills, cs)
	}
	job.Requirements.Skills = skills

	education := make([]string, 0, len(job.Requirements.Education))
	seenDeg := map[string]struct{}{}
	for _, d := range job.Requirements.Education {
		cd := n.CanonicalDegree(d)
		if _, dup := seenDeg[cd]; dup || cd == "" {
			continue
		}
		seenDeg[cd] = struct{}{}
		education = append(education, cd)
	}
	job.Requirements.Education = education

	if job.Location.City != "" {
		job.Location.City = n.CanonicalCity(job.Location.City)
		job.Location.State = n.cfg.Normalization.CityStates[job.Location.City]
	}

	score := n.Completeness(*job)
	job.Metadata.CompletenessScore = score
	job.Metadata.LowCompleteness = score < n.cfg.Processing.MinCompletenessScore
}

// CanonicalSkill resolves a skill through the synonym map.
func (n *Normalizer) CanonicalSkill(raw string) string {
	key := clean(raw)
	if canonical, ok := n.cfg.Normalization.SkillMap[key]; ok {
		return canonical
	}
	return key
}

// CanonicalDegree resolves a degree abbreviation, e.g. "btech" → "B.Tech".
func (n *Normalizer) CanonicalDegree(raw string) string {
	key := clean(raw)
	if canonical, ok := n.cfg.Normalization.DegreeMap[key]; ok {
		return canonical
	}
	return key
}

// CanonicalCity resolves a city alias, e.g. "bengaluru" → "Bangalore".
func (n *Normalizer) CanonicalCity(raw string) string {
	key := clean(raw)
	if canonical, ok := n.cfg.Normalization.CityMap[key]; ok {
		return canonical
	}
	return key
}

// CanonicalCompany strips the configured legal suffixes and title-cases
// the remainder.
func (n *Normalizer) CanonicalCompany(raw string) string {
	name := strings.TrimSpace(raw)
	upper := strings.ToUpper(name)
	for _, suffix := range n.cfg.Normalization.CompanySuffixes {
		suffix = strings.ToUpper(strings.TrimSpace(suffix))
		if suffix == "" || !strings.HasSuffix(upper, suffix) {
			continue
		}
		name = strings.TrimSpace(name[:len(name)-len(suffix)])
		name = strings.TrimRight(name, ".,")
		break
	}
	return titleCase(name)
}

// Completeness is the weighted fraction of expected fields present:
// 0.6 × required + 0.4 × important, field sets from configuration.
func (n *Normalizer) Completeness(job models.JobPosting) float64 {
	req := n.cfg.Completeness.RequiredFields
	imp := n.cfg.Completeness.ImportantFields

	score := 0.0
	if len(req) > 0 {
		score += requiredWeight * float64(countPresent(job, req)) / float64(len(req))
	}
	if len(imp) > 0 {
		score += importantWeight * float64(countPresent(job, imp)) / float64(len(imp))
	}
	return score
}

func countPresent(job models.JobPosting, fields []string) int {
	count := 0
	for _, f := range fields {
		if fieldPresent(job, f) {
			count++
		}
	}
	return count
}

func fieldPresent(job models.JobPosting, field string) bool {
	switch field {
	case "company":
		return job.Company.RawName != ""
	case "position":
		return job.Position.Title != ""
	case "skills":
		return len(job.Requirements.Skills) > 0
	case "education":
		return len(job.Requirements.Education) > 0
	case "experience":
		return job.Requirements.ExperienceMin != nil
	case "location":
		return job.Location.City != ""
	case "salary":
		return job.Compensation.SalaryMin != nil
	case "deadline":
		return job.Application.Deadline != ""
	case "apply_link":
		return job.Application.ApplyLink != ""
	case "contact_email":
		return job.Application.ContactEmail != ""
	default:
		return false
	}
}

func clean(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func titleCase(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		if len(w) <= 3 && strings.ToUpper(w) == w {
			continue // keep short all-caps tokens like TCS, HCL
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
