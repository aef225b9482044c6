package prioritize

import (
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
}

func testScorer(t *testing.T) *Scorer {
	t.Helper()
	return New(config.Default()).WithClock(fixedClock())
}

func scoredJob(mutate func(*models.JobPosting)) models.JobPosting {
	job := models.JobPosting{
		JobID:    "job-1",
		Company:  models.Company{RawName: "tcs", Canonical: "Tcs"},
		Position: models.Position{Title: "data scientist"},
		Requirements: models.Requirements{
			Skills: []string{"python", "sql", "machine learning", "data science", "pandas"},
		},
		Location: models.Location{City: "Bangalore", WorkMode: models.WorkModeHybrid},
		Metadata: models.Metadata{CompletenessScore: 0.8},
	}
	if mutate != nil {
		mutate(&job)
	}
	return job
}

func TestSkillsMatchFullOverlap(t *testing.T) {
	s := testScorer(t)

	p := s.Score(scoredJob(nil))
	assert.InDelta(t, 1.0, p.ComponentScores["skills_match"], 1e-9)
}

func TestSkillsMatchMissingMustHaveIsCapped(t *testing.T) {
	s := testScorer(t)

	// 4 of 5 profile skills present, but python (must-have) absent
	job := scoredJob(func(j *models.JobPosting) {
		j.Requirements.Skills = []string{"sql", "machine learning", "data science", "pandas"}
	})
	p := s.Score(job)
	assert.InDelta(t, 0.3, p.ComponentScores["skills_match"], 1e-9)
}

func TestLocationMatchBuckets(t *testing.T) {
	s := testScorer(t)

	tests := []struct {
		city string
		mode string
		want float64
	}{
		{"Bangalore", models.WorkModeOnsite, 1.0}, // preferred
		{"Mumbai", models.WorkModeOnsite, 0.8},    // tier-1
		{"Pune", models.WorkModeOnsite, 0.6},      // tier-2
		{"Indore", models.WorkModeOnsite, 0.4},
		{"", models.WorkModeRemote, 1.0}, // remote trumps geography
	}
	for _, tt := range tests {
		job := scoredJob(func(j *models.JobPosting) {
			j.Location.City = tt.city
			j.Location.WorkMode = tt.mode
		})
		p := s.Score(job)
		assert.InDelta(t, tt.want, p.ComponentScores["location_match"], 1e-9,
			"city %q mode %q", tt.city, tt.mode)
	}
}

func TestSalaryAttractiveness(t *testing.T) {
	s := testScorer(t)

	salary := func(lpa float64) func(*models.JobPosting) {
		return func(j *models.JobPosting) {
			j.Compensation.SalaryMin = &lpa
			j.Compensation.SalaryMax = &lpa
		}
	}

	tests := []struct {
		name      string
		mutate    func(*models.JobPosting)
		want      float64
		wantBonus float64
	}{
		{"missing", nil, 0.5, 0},
		{"below minimum", salary(2), 0.5, 0},
		{"midway", salary(5.5), 0.75, 0},
		{"at ideal", salary(8), 1.0, 0},
		{"above ideal", salary(12), 1.0, 0.1},
		{"far above ideal", salary(30), 1.0, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := s.Score(scoredJob(tt.mutate))
			assert.InDelta(t, tt.want, p.ComponentScores["salary_attractiveness"], 1e-9)
			assert.InDelta(t, tt.wantBonus, p.ComponentScores[salaryBonusKey], 1e-9)
		})
	}
}

func TestSalaryBonusNeverInflatesFinalScore(t *testing.T) {
	s := testScorer(t)

	atIdeal := 8.0
	wayAbove := 40.0
	base := s.Score(scoredJob(func(j *models.JobPosting) {
		j.Compensation.SalaryMin = &atIdeal
		j.Compensation.SalaryMax = &atIdeal
	}))
	boosted := s.Score(scoredJob(func(j *models.JobPosting) {
		j.Compensation.SalaryMin = &wayAbove
		j.Compensation.SalaryMax = &wayAbove
	}))
	assert.Equal(t, base.FinalScore, boosted.FinalScore)
}

func TestCompanyReputation(t *testing.T) {
	s := testScorer(t)

	tests := []struct {
		company string
		want    float64
	}{
		{"google", 1.0},
		{"flipkart", 0.95},
		{"ibm", 0.85},
		{"tcs", 0.65},
		{"some obscure shop", 0.5},
	}
	for _, tt := range tests {
		job := scoredJob(func(j *models.JobPosting) {
			j.Company = models.Company{RawName: tt.company}
		})
		p := s.Score(job)
		assert.InDelta(t, tt.want, p.ComponentScores["company_reputation"], 1e-9, tt.company)
	}
}

func TestWorkModePreference(t *testing.T) {
	s := testScorer(t)

	tests := []struct {
		mode string
		want float64
	}{
		{models.WorkModeRemote, 1.0},
		{models.WorkModeHybrid, 1.0}, // both remote and hybrid preferred
		{models.WorkModeOnsite, 0.7},
		{models.WorkModeUnknown, 0.6},
	}
	for _, tt := range tests {
		job := scoredJob(func(j *models.JobPosting) {
			j.Location.WorkMode = tt.mode
			j.Location.City = "Indore"
		})
		p := s.Score(job)
		assert.InDelta(t, tt.want, p.ComponentScores["work_mode_preference"], 1e-9, tt.mode)
	}
}

func TestDeadlineUrgencyBuckets(t *testing.T) {
	s := testScorer(t)

	tests := []struct {
		deadline string
		want     float64
	}{
		{"2025-01-02", 1.0},
		{"2025-01-05", 0.9},
		{"2025-01-10", 0.7},
		{"2025-01-20", 0.5},
		{"2025-03-01", 0.3},
		{"", 0.3},
		{"2024-12-25", 0.0}, // expired
	}
	for _, tt := range tests {
		job := scoredJob(func(j *models.JobPosting) {
			j.Application.Deadline = tt.deadline
		})
		p := s.Score(job)
		assert.InDelta(t, tt.want, p.ComponentScores["deadline_urgency"], 1e-9, tt.deadline)
	}
}

func TestExperienceFit(t *testing.T) {
	years := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		profile  float64
		min, max *float64
		want     float64
	}{
		{"no requirement", 0, nil, nil, 0.5},
		{"centered in range", 3, years(2), years(4), 1.0},
		{"in range off center", 0, years(0), years(2), 0.8},
		{"slightly above", 4, years(0), years(2), 0.6},
		{"far above", 7, years(0), years(2), 0.3},
		{"below range", 1, years(3), years(5), 0.4},
		{"open ended met", 5, years(3), nil, 0.8},
		{"open ended unmet", 1, years(3), nil, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.UserProfile.ExperienceYears = tt.profile
			s := New(cfg).WithClock(fixedClock())

			job := scoredJob(func(j *models.JobPosting) {
				j.Requirements.ExperienceMin = tt.min
				j.Requirements.ExperienceMax = tt.max
			})
			p := s.Score(job)
			assert.InDelta(t, tt.want, p.ComponentScores["experience_fit"], 1e-9)
		})
	}
}

func TestFinalScoreRespectsWeights(t *testing.T) {
	cfg := config.Default()
	cfg.ScoringWeights = models.ScoringWeights{
		"skills_match":          1.0,
		"location_match":        0,
		"salary_attractiveness": 0,
		"company_reputation":    0,
		"work_mode_preference":  0,
		"deadline_urgency":      0,
		"experience_fit":        0,
		"completeness":          0,
	}
	require.NoError(t, cfg.ScoringWeights.Validate())
	s := New(cfg).WithClock(fixedClock())

	p := s.Score(scoredJob(nil))
	assert.InDelta(t, 100.0, p.FinalScore, 1e-9)
	assert.Equal(t, models.TierHighlyRecommended, p.Tier)
}

func TestTierThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, models.TierHighlyRecommended},
		{80, models.TierHighlyRecommended},
		{79.9, models.TierRecommended},
		{65, models.TierRecommended},
		{50, models.TierConsider},
		{49.9, models.TierNotRecommended},
		{0, models.TierNotRecommended},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tier(tt.score), "score %v", tt.score)
	}
}

func TestScoreStaysInRange(t *testing.T) {
	s := testScorer(t)

	jobs := []models.JobPosting{
		scoredJob(nil),
		{JobID: "empty"},
		scoredJob(func(j *models.JobPosting) {
			big := 100.0
			j.Compensation.SalaryMin = &big
			j.Compensation.SalaryMax = &big
			j.Metadata.CompletenessScore = 1
		}),
	}
	for _, job := range jobs {
		p := s.Score(job)
		assert.GreaterOrEqual(t, p.FinalScore, 0.0)
		assert.LessOrEqual(t, p.FinalScore, 100.0)
		for _, name := range models.ComponentNames {
			c := p.ComponentScores[name]
			assert.GreaterOrEqual(t, c, 0.0, name)
			assert.LessOrEqual(t, c, 1.0, name)
		}
	}
}

func TestRankOrdersByScoreThenSkillsThenRecency(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	withPriority := func(id string, final, skills float64, ts time.Time) models.JobPosting {
		return models.JobPosting{
			JobID:    id,
			Metadata: models.Metadata{ExtractionTimestamp: ts},
			Priority: &models.Priority{
				FinalScore:      final,
				ComponentScores: map[string]float64{"skills_match": skills},
			},
		}
	}

	jobs := []models.JobPosting{
		withPriority("low", 50, 0.2, older),
		withPriority("tie-weak-skills", 90, 0.4, older),
		withPriority("tie-old", 90, 0.8, older),
		withPriority("tie-new", 90, 0.8, newer),
		withPriority("high", 95, 0.1, older),
	}

	ranked := Rank(jobs)
	got := make([]string, len(ranked))
	for i, j := range ranked {
		got[i] = j.JobID
	}
	want := []string{"high", "tie-new", "tie-old", "tie-weak-skills", "low"}
	assert.Equal(t, want, got)

	// input order untouched
	assert.Equal(t, "low", jobs[0].JobID)
}

func TestTopTruncatesAfterFullRanking(t *testing.T) {
	jobs := []models.JobPosting{
		{JobID: "a", Priority: &models.Priority{FinalScore: 10}},
		{JobID: "b", Priority: &models.Priority{FinalScore: 90}},
		{JobID: "c", Priority: &models.Priority{FinalScore: 50}},
	}

	top := Top(jobs, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].JobID)
	assert.Equal(t, "c", top[1].JobID)

	assert.Len(t, Top(jobs, 0), 3)
	assert.Len(t, Top(jobs, 10), 3)
}
