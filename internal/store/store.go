// Package store persists the combined job posting set in two forms: a
// nested JSON document and a flattened CSV with a fixed column schema.
// Both files are written to temp paths and renamed together, so a crash
// mid-write leaves the previous pair intact and mutually consistent.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jobsift/jobsift/internal/models"
	"github.com/rs/zerolog"
)

// MergeStats summarizes one merge of new records into the persisted set.
type MergeStats struct {
	Existing int
	Incoming int
	Added    int
	Replaced int
	Total    int
}

// Store reads and writes one stage's job posting outputs. scored selects
// whether the CSV carries the priority columns.
type Store struct {
	csvPath  string
	jsonPath string
	scored   bool
	log      zerolog.Logger
}

func New(csvPath, jsonPath string, scored bool, logger zerolog.Logger) *Store {
	return &Store{csvPath: csvPath, jsonPath: jsonPath, scored: scored, log: logger}
}

// Load reads the persisted record set from the JSON file. A missing file
// is an empty set.
func (s *Store) Load() ([]models.JobPosting, error) {
	return ReadJSON(s.jsonPath)
}

// Merge combines the existing persisted set with newly produced records,
// keyed by job_id. A collision should not happen under deterministic id
// derivation, but when it does the new record wins and a warning is
// logged; it is never fatal. Existing record order is preserved, new
// records append in order. Merging the same batch twice is a no-op.
func (s *Store) Merge(existing, incoming []models.JobPosting) ([]models.JobPosting, MergeStats) {
	stats := MergeStats{Existing: len(existing), Incoming: len(incoming)}

	index := make(map[string]int, len(existing))
	out := make([]models.JobPosting, 0, len(existing)+len(incoming))
	for _, job := range existing {
		if at, dup := index[job.JobID]; dup {
			out[at] = job
			continue
		}
		index[job.JobID] = len(out)
		out = append(out, job)
	}

	for _, job := range incoming {
		if at, dup := index[job.JobID]; dup {
			if !equalJobs(out[at], job) {
				s.log.Warn().
					Str("job_id", job.JobID).
					Str("email_id", job.EmailID).
					Msg("duplicate job_id with divergent content; new record wins")
			}
			out[at] = job
			stats.Replaced++
			continue
		}
		index[job.JobID] = len(out)
		out = append(out, job)
		stats.Added++
	}

	stats.Total = len(out)
	return out, stats
}

// Save writes both output forms atomically: each file goes to a temp
// path first and the renames happen back to back, minimizing the window
// in which CSV and JSON could diverge.
func (s *Store) Save(jobs []models.JobPosting) error {
	if err := os.MkdirAll(filepath.Dir(s.jsonPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if dir := filepath.Dir(s.csvPath); dir != filepath.Dir(s.jsonPath) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	jsonTmp := s.jsonPath + ".tmp"
	csvTmp := s.csvPath + ".tmp"

	if err := writeJSONFile(jsonTmp, jobs); err != nil {
		return fmt.Errorf("write %s: %w", jsonTmp, err)
	}
	if err := writeCSVFile(csvTmp, jobs, s.scored); err != nil {
		os.Remove(jsonTmp)
		return fmt.Errorf("write %s: %w", csvTmp, err)
	}

	if err := os.Rename(jsonTmp, s.jsonPath); err != nil {
		os.Remove(jsonTmp)
		os.Remove(csvTmp)
		return fmt.Errorf("replace %s: %w", s.jsonPath, err)
	}
	if err := os.Rename(csvTmp, s.csvPath); err != nil {
		os.Remove(csvTmp)
		return fmt.Errorf("replace %s: %w", s.csvPath, err)
	}
	return nil
}

// ReadJSON reads a nested job posting document; missing files are empty.
func ReadJSON(path string) ([]models.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.JobPosting{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.JobPosting{}, nil
	}

	var jobs []models.JobPosting
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	return jobs, nil
}

func writeJSONFile(path string, jobs []models.JobPosting) error {
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func equalJobs(a, b models.JobPosting) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aj) == string(bj)
}
