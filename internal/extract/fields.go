package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/models"
)

// compiledPattern pairs a configured regex with its fixed confidence.
type compiledPattern struct {
	name       string
	re         *regexp.Regexp
	confidence float64
}

type compiledDatePattern struct {
	re     *regexp.Regexp
	layout string
}

var (
	linkRe  = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	// leading "<number>k" in a salary match means thousands of rupees
	thousandsRe = regexp.MustCompile(`^\s*\d+(?:\.\d+)?\s*k`)
)

func compilePatterns(patterns []config.Pattern) []compiledPattern {
	out := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p.Pattern)
		if err != nil {
			// config validation compiles these already; skip defensively
			continue
		}
		out = append(out, compiledPattern{name: p.Name, re: re, confidence: p.Confidence})
	}
	return out
}

func compileDatePatterns(patterns []config.DatePattern) []compiledDatePattern {
	out := make([]compiledDatePattern, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		out = append(out, compiledDatePattern{re: re, layout: p.Layout})
	}
	return out
}

// extractSalary tries the configured patterns in order; the first match
// wins. Figures are normalized to lakhs per annum.
func (e *Engine) extractSalary(text string) models.Compensation {
	for _, p := range e.salaryPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		values := numericGroups(m)
		if len(values) == 0 {
			continue
		}

		comp := models.Compensation{
			Currency:   e.cfg.SalaryParsing.DefaultCurrency,
			Period:     e.cfg.SalaryParsing.DefaultPeriod,
			RawText:    strings.TrimSpace(m[0]),
			Confidence: p.confidence,
		}

		min := values[0]
		max := min
		if len(values) > 1 {
			max = values[1]
		}

		if p.name == "monthly" {
			factor := 1.0
			if thousandsRe.MatchString(strings.ToLower(m[0])) {
				factor = 1000
			}
			// monthly rupees annualized to LPA
			min = min * factor * 12 / 100000
			max = max * factor * 12 / 100000
			comp.Period = models.PeriodMonthly
		}

		if max < min {
			min, max = max, min
		}
		comp.SalaryMin = &min
		comp.SalaryMax = &max
		return comp
	}
	return models.Compensation{}
}

// extractExperience applies the configured patterns in order and derives
// the experience type from the fresher keywords and level thresholds.
func (e *Engine) extractExperience(text string) (min, max *float64, expType string) {
	lower := strings.ToLower(text)
	for _, kw := range e.cfg.ExperienceTypes.FresherKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			zero := 0.0
			return &zero, nil, "fresher"
		}
	}

	for _, p := range e.experiencePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		values := numericGroups(m)
		if len(values) == 0 {
			continue
		}
		lo := values[0]
		min = &lo
		if len(values) > 1 {
			hi := values[1]
			if hi < lo {
				lo, hi = hi, lo
				min = &lo
			}
			max = &hi
		}
		return min, max, e.experienceType(lo)
	}
	return nil, nil, ""
}

func (e *Engine) experienceType(minYears float64) string {
	t := e.cfg.ExperienceTypes.Thresholds
	switch {
	case minYears <= t.EntryLevelMax:
		return "entry"
	case minYears <= t.MidLevelMax:
		return "mid"
	default:
		return "senior"
	}
}

// extractDeadline returns a YYYY-MM-DD date string. Absolute date patterns
// are tried in configured order; relative keywords resolve against the
// engine clock.
func (e *Engine) extractDeadline(text string) string {
	for _, p := range e.deadlinePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		joined := strings.Join(m[1:], "-")
		t, err := time.Parse(p.layout, joined)
		if err != nil {
			continue
		}
		return t.Format("2006-01-02")
	}

	lower := strings.ToLower(text)
	for kw, days := range e.cfg.DeadlineParsing.RelativeKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return e.now().AddDate(0, 0, days).Format("2006-01-02")
		}
	}
	return ""
}

func extractApplyLink(text string) string {
	m := linkRe.FindString(text)
	return strings.TrimRight(m, ".,;")
}

func extractContactEmail(text string) string {
	return emailRe.FindString(text)
}

// positionLevel derives the level from keywords in the title, falling
// back to the full text, then to the extracted experience range.
func (e *Engine) positionLevel(title, text string, expMin *float64) string {
	for _, scope := range []string{title, text} {
		lower := strings.ToLower(scope)
		switch {
		case containsAny(lower, e.cfg.PositionLevels.ManagerKeywords):
			return models.LevelLead
		case containsAny(lower, e.cfg.PositionLevels.SeniorKeywords):
			return models.LevelSenior
		case containsAny(lower, e.cfg.PositionLevels.InternKeywords),
			containsAny(lower, e.cfg.PositionLevels.JuniorKeywords):
			return models.LevelEntry
		}
	}

	if expMin != nil {
		t := e.cfg.ExperienceTypes.Thresholds
		switch {
		case *expMin > t.MidLevelMax:
			return models.LevelSenior
		case *expMin > t.EntryLevelMax:
			return models.LevelMid
		default:
			return models.LevelEntry
		}
	}
	return models.LevelUnknown
}

// workMode checks hybrid before remote: postings advertising both are
// hybrid in practice.
func (e *Engine) workMode(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, e.cfg.WorkModeKeywords.Hybrid):
		return models.WorkModeHybrid
	case containsAny(lower, e.cfg.WorkModeKeywords.Remote):
		return models.WorkModeRemote
	case containsAny(lower, e.cfg.WorkModeKeywords.Onsite):
		return models.WorkModeOnsite
	default:
		return models.WorkModeUnknown
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// numericGroups returns the capture groups that parse as numbers, in order.
func numericGroups(match []string) []float64 {
	var out []float64
	for _, g := range match[1:] {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		v, err := strconv.ParseFloat(g, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
