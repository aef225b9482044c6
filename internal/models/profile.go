package models

import (
	"fmt"
	"math"
	"strings"
)

// UserProfile describes the candidate the prioritization stage scores
// against. Loaded from configuration; immutable during a run.
type UserProfile struct {
	Skills             []string `json:"preferred_skills"`
	MustHaveSkills     []string `json:"must_have_skills"`
	Degree             string   `json:"degree,omitempty"`
	ExperienceYears    float64  `json:"experience_years"`
	PreferredLocations []string `json:"preferred_locations"`
	PreferredWorkModes []string `json:"preferred_work_modes"`
	AvoidKeywords      []string `json:"avoid_keywords,omitempty"`
}

// SkillSet returns the profile skills as a lowercase lookup set.
func (p UserProfile) SkillSet() map[string]struct{} {
	return toSet(p.Skills)
}

// MustHaveSet returns the must-have skills as a lowercase lookup set.
func (p UserProfile) MustHaveSet() map[string]struct{} {
	return toSet(p.MustHaveSkills)
}

// PrefersLocation reports whether city is one of the preferred locations.
func (p UserProfile) PrefersLocation(city string) bool {
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" {
		return false
	}
	for _, loc := range p.PreferredLocations {
		if strings.ToLower(strings.TrimSpace(loc)) == city {
			return true
		}
	}
	return false
}

// PrefersWorkMode reports whether mode is one of the preferred work modes.
func (p UserProfile) PrefersWorkMode(mode string) bool {
	mode = strings.ToLower(strings.TrimSpace(mode))
	for _, m := range p.PreferredWorkModes {
		if strings.ToLower(strings.TrimSpace(m)) == mode {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// WeightTolerance is the allowed deviation of the weight sum from 1.0.
const WeightTolerance = 1e-6

// ScoringWeights maps component name to its weight. Weights must cover
// exactly ComponentNames and sum to 1.0 within WeightTolerance.
type ScoringWeights map[string]float64

// Validate fails when a component is missing, unknown, negative, or the
// weights do not sum to 1.0.
func (w ScoringWeights) Validate() error {
	known := make(map[string]struct{}, len(ComponentNames))
	for _, name := range ComponentNames {
		known[name] = struct{}{}
		if _, ok := w[name]; !ok {
			return fmt.Errorf("scoring_weights: missing component %q", name)
		}
	}
	sum := 0.0
	for name, weight := range w {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("scoring_weights: unknown component %q", name)
		}
		if weight < 0 {
			return fmt.Errorf("scoring_weights: %s must be non-negative, got %v", name, weight)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("scoring_weights: weights must sum to 1.0, got %.6f", sum)
	}
	return nil
}
