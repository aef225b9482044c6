package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jobsift/jobsift/internal/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName        = "jobsift"
	ConfigFileName = "config.json"
)

// Config is the validated pipeline configuration. Loaded once per run and
// passed explicitly into each stage; nothing reads it ambiently.
type Config struct {
	Incremental       IncrementalConfig       `json:"incremental_processing"`
	InputOutput       InputOutputConfig       `json:"input_output"`
	Processing        ProcessingConfig        `json:"processing"`
	Normalization     NormalizationConfig     `json:"normalization"`
	Vocabularies      VocabularyConfig        `json:"vocabularies"`
	PositionLevels    PositionLevelConfig     `json:"position_levels"`
	WorkModeKeywords  WorkModeConfig          `json:"work_mode_keywords"`
	ExperienceTypes   ExperienceTypesConfig   `json:"experience_types"`
	SalaryParsing     SalaryParsingConfig     `json:"salary_parsing"`
	ExperienceParsing ExperienceParsingConfig `json:"experience_parsing"`
	DeadlineParsing   DeadlineParsingConfig   `json:"deadline_parsing"`
	Completeness      CompletenessConfig      `json:"completeness"`
	ScoringWeights    models.ScoringWeights   `json:"scoring_weights"`
	UserProfile       models.UserProfile      `json:"user_profile"`
	CompanyReputation ReputationConfig        `json:"company_reputation"`
	LocationScoring   LocationScoringConfig   `json:"location_scoring"`
	SalaryScoring     SalaryScoringConfig     `json:"salary_scoring"`
}

type IncrementalConfig struct {
	Enabled             bool   `json:"enabled"`
	StateDirectory      string `json:"state_directory"`
	StructureStateFile  string `json:"state_file"`
	PrioritizeStateFile string `json:"prioritize_state_file"`
	CheckpointInterval  int    `json:"checkpoint_interval"`
	ForceFullReprocess  bool   `json:"force_full_reprocess"`
}

type InputOutputConfig struct {
	EmailsInput     string `json:"emails_input"`
	StructuredCSV   string `json:"structured_csv"`
	StructuredJSON  string `json:"structured_json"`
	PrioritizedCSV  string `json:"prioritized_csv"`
	PrioritizedJSON string `json:"prioritized_json"`
	TopN            int    `json:"top_n_recommendations"`
}

type ProcessingConfig struct {
	MaxJobsPerEmail      int     `json:"max_jobs_per_email"`
	MaxCompaniesPerEmail int     `json:"max_companies_per_email"`
	MaxPositionsPerEmail int     `json:"max_positions_per_email"`
	MinCompletenessScore float64 `json:"min_completeness_score"`
}

type NormalizationConfig struct {
	SkillMap        map[string]string `json:"skill_map"`
	DegreeMap       map[string]string `json:"degree_map"`
	CityMap         map[string]string `json:"city_map"`
	CityStates      map[string]string `json:"city_states"`
	CompanySuffixes []string          `json:"company_suffixes"`
}

// VocabularyConfig holds the term lists the extraction engine matches
// against email text.
type VocabularyConfig struct {
	Skills    []string `json:"skills"`
	Positions []string `json:"positions"`
	Companies []string `json:"companies"`
	Locations []string `json:"locations"`
	Degrees   []string `json:"degrees"`
}

type PositionLevelConfig struct {
	SeniorKeywords  []string `json:"senior_keywords"`
	JuniorKeywords  []string `json:"junior_keywords"`
	InternKeywords  []string `json:"intern_keywords"`
	ManagerKeywords []string `json:"manager_keywords"`
}

type WorkModeConfig struct {
	Remote []string `json:"remote"`
	Hybrid []string `json:"hybrid"`
	Onsite []string `json:"onsite"`
}

type ExperienceTypesConfig struct {
	FresherKeywords []string             `json:"fresher_keywords"`
	Thresholds      ExperienceThresholds `json:"thresholds"`
}

type ExperienceThresholds struct {
	EntryLevelMax float64 `json:"entry_level_max"`
	MidLevelMax   float64 `json:"mid_level_max"`
}

// Pattern is one entry in an ordered regex pattern list. Order matters:
// the first pattern that matches wins for its field.
type Pattern struct {
	Name       string  `json:"name"`
	Pattern    string  `json:"pattern"`
	Confidence float64 `json:"confidence"`
}

type SalaryParsingConfig struct {
	Patterns        []Pattern `json:"patterns"`
	DefaultCurrency string    `json:"default_currency"`
	DefaultPeriod   string    `json:"default_period"`
}

type ExperienceParsingConfig struct {
	Patterns []Pattern `json:"patterns"`
}

// DatePattern pairs a capture regex with the Go time layout used to parse
// the captured text.
type DatePattern struct {
	Pattern string `json:"pattern"`
	Layout  string `json:"layout"`
}

type DeadlineParsingConfig struct {
	DatePatterns     []DatePattern  `json:"date_patterns"`
	RelativeKeywords map[string]int `json:"relative_keywords"`
}

type CompletenessConfig struct {
	RequiredFields  []string `json:"required_fields"`
	ImportantFields []string `json:"important_fields"`
}

type ReputationConfig struct {
	TierScores       map[string]float64 `json:"tier_scores"`
	FAANGCompanies   []string           `json:"faang_companies"`
	UnicornCompanies []string           `json:"unicorn_companies"`
	MNCCompanies     []string           `json:"mnc_companies"`
	ProductCompanies []string           `json:"product_companies"`
	StartupCompanies []string           `json:"startup_companies"`
	ServiceCompanies []string           `json:"service_companies"`
}

type LocationScoringConfig struct {
	Tier1Cities []string `json:"tier1_cities"`
	Tier2Cities []string `json:"tier2_cities"`
}

type SalaryScoringConfig struct {
	MinAcceptableLPA   float64 `json:"min_acceptable_lpa"`
	IdealSalaryLPA     float64 `json:"ideal_salary_lpa"`
	AboveIdealBonus    float64 `json:"above_ideal_bonus"`
	MissingSalaryScore float64 `json:"missing_salary_score"`
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads and validates the configuration. With an empty path the
// default location is tried and a missing file falls back to built-in
// defaults; an explicitly given path must exist. Validation failures are
// fatal: the pipeline never runs on a half-valid config.
func Load(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return Config{}, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Init writes the default config file if it doesn't already exist and
// returns its path.
func Init() (string, bool, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, err
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, err
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Validate checks structure, value ranges, regex compilability, and the
// scoring weight sum. All problems are reported at once.
func (c Config) Validate() error {
	var errs []error

	if c.Incremental.CheckpointInterval <= 0 {
		errs = append(errs, fmt.Errorf("incremental_processing.checkpoint_interval must be positive, got %d", c.Incremental.CheckpointInterval))
	}
	if strings.TrimSpace(c.Incremental.StateDirectory) == "" {
		errs = append(errs, errors.New("incremental_processing.state_directory is required"))
	}
	if strings.TrimSpace(c.Incremental.StructureStateFile) == "" {
		errs = append(errs, errors.New("incremental_processing.state_file is required"))
	}
	if strings.TrimSpace(c.Incremental.PrioritizeStateFile) == "" {
		errs = append(errs, errors.New("incremental_processing.prioritize_state_file is required"))
	}

	if c.Processing.MaxJobsPerEmail <= 0 {
		errs = append(errs, fmt.Errorf("processing.max_jobs_per_email must be positive, got %d", c.Processing.MaxJobsPerEmail))
	}
	if c.Processing.MaxCompaniesPerEmail <= 0 {
		errs = append(errs, fmt.Errorf("processing.max_companies_per_email must be positive, got %d", c.Processing.MaxCompaniesPerEmail))
	}
	if c.Processing.MaxPositionsPerEmail <= 0 {
		errs = append(errs, fmt.Errorf("processing.max_positions_per_email must be positive, got %d", c.Processing.MaxPositionsPerEmail))
	}
	if c.Processing.MinCompletenessScore < 0 || c.Processing.MinCompletenessScore > 1 {
		errs = append(errs, fmt.Errorf("processing.min_completeness_score must be in [0,1], got %v", c.Processing.MinCompletenessScore))
	}

	for i, p := range c.SalaryParsing.Patterns {
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("salary_parsing.patterns[%d]: name is required", i))
		}
		if p.Confidence < 0 || p.Confidence > 1 {
			errs = append(errs, fmt.Errorf("salary_parsing.patterns[%d] (%s): confidence must be in [0,1], got %v", i, p.Name, p.Confidence))
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("salary_parsing.patterns[%d] (%s): %w", i, p.Name, err))
		}
	}
	if strings.TrimSpace(c.SalaryParsing.DefaultCurrency) == "" {
		errs = append(errs, errors.New("salary_parsing.default_currency is required"))
	}
	switch c.SalaryParsing.DefaultPeriod {
	case models.PeriodAnnual, models.PeriodMonthly:
	default:
		errs = append(errs, fmt.Errorf("salary_parsing.default_period must be %q or %q, got %q", models.PeriodAnnual, models.PeriodMonthly, c.SalaryParsing.DefaultPeriod))
	}

	for i, p := range c.ExperienceParsing.Patterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("experience_parsing.patterns[%d] (%s): %w", i, p.Name, err))
		}
	}

	for i, p := range c.DeadlineParsing.DatePatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("deadline_parsing.date_patterns[%d]: %w", i, err))
		}
		if strings.TrimSpace(p.Layout) == "" {
			errs = append(errs, fmt.Errorf("deadline_parsing.date_patterns[%d]: layout is required", i))
		}
	}

	if len(c.Completeness.RequiredFields) == 0 {
		errs = append(errs, errors.New("completeness.required_fields must not be empty"))
	}
	if len(c.Completeness.ImportantFields) == 0 {
		errs = append(errs, errors.New("completeness.important_fields must not be empty"))
	}

	if err := c.ScoringWeights.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.SalaryScoring.MinAcceptableLPA < 0 {
		errs = append(errs, fmt.Errorf("salary_scoring.min_acceptable_lpa must be non-negative, got %v", c.SalaryScoring.MinAcceptableLPA))
	}
	if c.SalaryScoring.IdealSalaryLPA < c.SalaryScoring.MinAcceptableLPA {
		errs = append(errs, fmt.Errorf("salary_scoring.ideal_salary_lpa (%v) must be >= min_acceptable_lpa (%v)", c.SalaryScoring.IdealSalaryLPA, c.SalaryScoring.MinAcceptableLPA))
	}
	if c.SalaryScoring.AboveIdealBonus < 0 || c.SalaryScoring.AboveIdealBonus > 0.2 {
		errs = append(errs, fmt.Errorf("salary_scoring.above_ideal_bonus must be in [0,0.2], got %v", c.SalaryScoring.AboveIdealBonus))
	}

	return errors.Join(errs...)
}

// StructureStatePath returns the structuring stage's durable state file.
func (c Config) StructureStatePath() string {
	return filepath.Join(c.Incremental.StateDirectory, c.Incremental.StructureStateFile)
}

// PrioritizeStatePath returns the prioritization stage's durable state file.
func (c Config) PrioritizeStatePath() string {
	return filepath.Join(c.Incremental.StateDirectory, c.Incremental.PrioritizeStateFile)
}
