package models

import "time"

// Position levels.
const (
	LevelEntry   = "Entry"
	LevelMid     = "Mid"
	LevelSenior  = "Senior"
	LevelLead    = "Lead"
	LevelUnknown = "Unknown"
)

// Work modes.
const (
	WorkModeRemote  = "remote"
	WorkModeHybrid  = "hybrid"
	WorkModeOnsite  = "onsite"
	WorkModeUnknown = "unknown"
)

// Salary periods.
const (
	PeriodAnnual  = "annual"
	PeriodMonthly = "monthly"
)

// Priority tiers.
const (
	TierHighlyRecommended = "Highly Recommended"
	TierRecommended       = "Recommended"
	TierConsider          = "Consider"
	TierNotRecommended    = "Not Recommended"
)

// ComponentNames lists every priority score factor. Scoring weights must
// cover exactly this set.
var ComponentNames = []string{
	"skills_match",
	"location_match",
	"salary_attractiveness",
	"company_reputation",
	"work_mode_preference",
	"deadline_urgency",
	"experience_fit",
	"completeness",
}

type Company struct {
	RawName    string  `json:"raw_name"`
	Canonical  string  `json:"canonical_name"`
	Confidence float64 `json:"confidence"`
}

type Position struct {
	Title      string  `json:"title"`
	Level      string  `json:"level"`
	Confidence float64 `json:"confidence"`
}

type Requirements struct {
	Skills         []string `json:"skills"`
	Education      []string `json:"education"`
	ExperienceMin  *float64 `json:"experience_min,omitempty"`
	ExperienceMax  *float64 `json:"experience_max,omitempty"`
	ExperienceType string   `json:"experience_type,omitempty"`
}

type Location struct {
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	WorkMode   string  `json:"work_mode"`
	Confidence float64 `json:"confidence"`
}

// Compensation holds salary figures normalized to lakhs per annum (LPA).
// Period records whether the source quoted an annual or monthly figure;
// monthly figures are annualized before storage.
type Compensation struct {
	SalaryMin  *float64 `json:"salary_min,omitempty"`
	SalaryMax  *float64 `json:"salary_max,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	Period     string   `json:"period,omitempty"`
	RawText    string   `json:"raw_text,omitempty"`
	Confidence float64  `json:"confidence"`
}

type Application struct {
	Deadline     string `json:"deadline,omitempty"` // YYYY-MM-DD
	ApplyLink    string `json:"apply_link,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
}

type Metadata struct {
	CompletenessScore   float64   `json:"completeness_score"`
	LowCompleteness     bool      `json:"low_completeness,omitempty"`
	ExtractionTimestamp time.Time `json:"extraction_timestamp"`
	SourceSubject       string    `json:"source_subject,omitempty"`
}

type Priority struct {
	FinalScore      float64            `json:"final_score"`
	Tier            string             `json:"tier"`
	ComponentScores map[string]float64 `json:"component_scores"`
}

// JobPosting is the structured record produced from one email. JobID is
// derived deterministically from (email id, ordinal) and is stable across
// runs for the same email content.
type JobPosting struct {
	JobID        string       `json:"job_id"`
	EmailID      string       `json:"email_id"`
	Company      Company      `json:"company"`
	Position     Position     `json:"position"`
	Requirements Requirements `json:"requirements"`
	Location     Location     `json:"location"`
	Compensation Compensation `json:"compensation"`
	Application  Application  `json:"application"`
	Metadata     Metadata     `json:"metadata"`
	Priority     *Priority    `json:"priority,omitempty"`
}

// Scored reports whether the prioritization stage has run on this record.
func (j JobPosting) Scored() bool { return j.Priority != nil }

// ComponentScore returns a named priority component, or 0 when unscored.
func (j JobPosting) ComponentScore(name string) float64 {
	if j.Priority == nil {
		return 0
	}
	return j.Priority.ComponentScores[name]
}

// DeadlineDate parses the application deadline, if any.
func (a Application) DeadlineDate() (time.Time, bool) {
	if a.Deadline == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", a.Deadline)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
