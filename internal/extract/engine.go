// Package extract turns raw placement emails into candidate job postings
// using vocabulary matching and ordered regex patterns. Extraction is a
// pure function of the email text and the configuration: malformed input
// yields an empty result, never an error.
package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/models"
)

// Fixed confidences for vocabulary-driven fields. Regex-driven fields
// carry per-pattern confidences from the configuration instead.
const (
	companyConfidence  = 0.9
	positionConfidence = 0.85
	locationConfidence = 0.8
)

// jobIDNamespace is the fixed UUIDv5 namespace for job id derivation.
// Changing it invalidates every persisted job_id.
var jobIDNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// DeriveJobID returns the deterministic id for the ordinal-th draft
// extracted from an email. Stable across runs for the same inputs, which
// is what makes checkpoint replay and re-merging idempotent.
func DeriveJobID(emailID string, ordinal int) string {
	return uuid.NewSHA1(jobIDNamespace, []byte(fmt.Sprintf("%s#%d", emailID, ordinal))).String()
}

// Engine extracts job posting drafts from emails. Build one per run: the
// constructor precompiles every vocabulary and pattern.
type Engine struct {
	cfg config.Config

	companies *vocabMatcher
	positions *vocabMatcher
	locations *vocabMatcher
	skills    *vocabMatcher
	degrees   *vocabMatcher

	salaryPatterns     []compiledPattern
	experiencePatterns []compiledPattern
	deadlinePatterns   []compiledDatePattern

	now func() time.Time
}

func New(cfg config.Config) *Engine {
	return &Engine{
		cfg:       cfg,
		companies: newVocabMatcher(cfg.Vocabularies.Companies),
		positions: newVocabMatcher(cfg.Vocabularies.Positions),
		locations: newVocabMatcher(cfg.Vocabularies.Locations, keysOf(cfg.Normalization.CityMap)),
		// synonym keys match too, so "js" in an email counts as a skill hit
		skills:  newVocabMatcher(cfg.Vocabularies.Skills, keysOf(cfg.Normalization.SkillMap)),
		degrees: newVocabMatcher(cfg.Vocabularies.Degrees, keysOf(cfg.Normalization.DegreeMap)),

		salaryPatterns:     compilePatterns(cfg.SalaryParsing.Patterns),
		experiencePatterns: compilePatterns(cfg.ExperienceParsing.Patterns),
		deadlinePatterns:   compileDatePatterns(cfg.DeadlineParsing.DatePatterns),

		now: time.Now,
	}
}

// WithClock overrides the engine clock; only relative deadline keywords
// and extraction timestamps depend on it.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Extract produces the ordered job posting drafts for one email. Fields
// are raw: the normalizer canonicalizes them afterwards.
func (e *Engine) Extract(email models.SourceEmail) []models.JobPosting {
	text := normalizeText(email.Text())
	if text == "" || strings.TrimSpace(email.ID) == "" {
		return nil
	}

	companies := e.companies.terms(text, e.cfg.Processing.MaxCompaniesPerEmail)
	positions := e.positions.terms(text, e.cfg.Processing.MaxPositionsPerEmail)
	skills := e.skills.terms(text, 0)
	degrees := e.degrees.terms(text, 0)

	expMin, expMax, expType := e.extractExperience(text)
	salary := e.extractSalary(text)
	deadline := e.extractDeadline(text)

	hasRequirements := len(skills) > 0 || len(degrees) > 0 || expMin != nil
	if len(companies) == 0 && len(positions) == 0 && !hasRequirements {
		return nil
	}

	location := models.Location{WorkMode: e.workMode(text)}
	if hits := e.locations.terms(text, 1); len(hits) > 0 {
		location.City = hits[0]
		location.Confidence = locationConfidence
	}

	app := models.Application{
		Deadline:     deadline,
		ApplyLink:    extractApplyLink(email.Text()),
		ContactEmail: extractContactEmail(email.Text()),
	}

	requirements := models.Requirements{
		Skills:         skills,
		Education:      degrees,
		ExperienceMin:  expMin,
		ExperienceMax:  expMax,
		ExperienceType: expType,
	}

	// One draft per (company, position) pair in order of appearance,
	// truncated at max_jobs_per_email. Missing companies or positions
	// pair against a single empty slot.
	companySlots := companies
	if len(companySlots) == 0 {
		companySlots = []string{""}
	}
	positionSlots := positions
	if len(positionSlots) == 0 {
		positionSlots = []string{""}
	}

	var jobs []models.JobPosting
	extractedAt := e.now().UTC()
	for _, company := range companySlots {
		for _, title := range positionSlots {
			if len(jobs) >= e.cfg.Processing.MaxJobsPerEmail {
				return jobs
			}

			job := models.JobPosting{
				JobID:        DeriveJobID(email.ID, len(jobs)),
				EmailID:      email.ID,
				Requirements: requirements,
				Location:     location,
				Compensation: salary,
				Application:  app,
				Metadata: models.Metadata{
					ExtractionTimestamp: extractedAt,
					SourceSubject:       email.Subject,
				},
			}
			if company != "" {
				job.Company = models.Company{RawName: company, Confidence: companyConfidence}
			}
			job.Position = models.Position{
				Title:      title,
				Level:      e.positionLevel(title, text, expMin),
				Confidence: 0,
			}
			if title != "" {
				job.Position.Confidence = positionConfidence
			}
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// normalizeText collapses whitespace and unifies unicode dashes so the
// configured patterns see predictable input.
func normalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range text {
		switch {
		case r == '–' || r == '—' || r == '―':
			b.WriteRune('-')
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace {
				b.WriteRune(' ')
			}
			lastSpace = true
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

func keysOf(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
