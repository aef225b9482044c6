package cmd

import (
	"fmt"
	"sort"

	"github.com/jobsift/jobsift/internal/extract"
	"github.com/jobsift/jobsift/internal/ingest"
	"github.com/jobsift/jobsift/internal/models"
	"github.com/jobsift/jobsift/internal/normalize"
	"github.com/jobsift/jobsift/internal/prioritize"
	"github.com/jobsift/jobsift/internal/state"
	"github.com/jobsift/jobsift/internal/store"
)

// StructureSummary reports one structuring run.
type StructureSummary struct {
	EmailsTotal     int  `json:"emails_total"`
	EmailsSkipped   int  `json:"emails_already_processed"`
	EmailsProcessed int  `json:"emails_processed"`
	JobsEmitted     int  `json:"jobs_emitted"`
	JobsAdded       int  `json:"jobs_added"`
	JobsReplaced    int  `json:"jobs_replaced"`
	JobsTotal       int  `json:"jobs_total"`
	Forced          bool `json:"forced,omitempty"`
}

// PrioritizeSummary reports one scoring run.
type PrioritizeSummary struct {
	JobsTotal     int            `json:"jobs_total"`
	JobsSkipped   int            `json:"jobs_already_scored"`
	JobsScored    int            `json:"jobs_scored"`
	TierCounts    map[string]int `json:"tier_counts"`
	Forced        bool           `json:"forced,omitempty"`
	ScoredInStore int            `json:"jobs_in_store"`
}

// outputStore wires checkpoint flushes: every flush merges the pending
// batch into the loaded set and rewrites both output files atomically.
type outputStore struct {
	store    *store.Store
	existing []models.JobPosting
	pending  []models.JobPosting

	added    int
	replaced int
}

func (o *outputStore) add(jobs ...models.JobPosting) {
	o.pending = append(o.pending, jobs...)
}

func (o *outputStore) flush() error {
	merged, stats := o.store.Merge(o.existing, o.pending)
	if err := o.store.Save(merged); err != nil {
		return err
	}
	o.existing = merged
	o.pending = nil
	o.added += stats.Added
	o.replaced += stats.Replaced
	return nil
}

func runStructure(ctx *Context, input string, force bool) (StructureSummary, error) {
	cfg := ctx.Config
	force = force || cfg.Incremental.ForceFullReprocess

	if input == "" {
		input = cfg.InputOutput.EmailsInput
	}
	emails, err := ingest.Read(input)
	if err != nil {
		return StructureSummary{}, err
	}

	engine := extract.New(cfg)
	norm := normalize.New(cfg)
	out := store.New(cfg.InputOutput.StructuredCSV, cfg.InputOutput.StructuredJSON, false, ctx.Logger)

	existing, err := out.Load()
	if err != nil {
		return StructureSummary{}, err
	}

	var tracker *state.Tracker
	delta := make(map[string]struct{}, len(emails))
	if cfg.Incremental.Enabled {
		tracker = state.NewTracker(cfg.StructureStatePath(), cfg.Incremental.CheckpointInterval, ctx.Logger)
		ids, err := tracker.Diff(ingest.IDs(emails), force)
		if err != nil {
			return StructureSummary{}, err
		}
		for _, id := range ids {
			delta[id] = struct{}{}
		}
	} else {
		for _, e := range emails {
			delta[e.ID] = struct{}{}
		}
	}
	if force {
		// full reprocess replaces outputs instead of merging into them
		existing = nil
	}

	summary := StructureSummary{
		EmailsTotal:   len(emails),
		EmailsSkipped: len(emails) - len(delta),
		Forced:        force,
	}
	batch := &outputStore{store: out, existing: existing}

	for _, email := range emails {
		if _, ok := delta[email.ID]; !ok {
			continue
		}
		jobs := engine.Extract(email)
		for i := range jobs {
			norm.Apply(&jobs[i])
			if jobs[i].Metadata.LowCompleteness {
				ctx.UI.Warnf("job %s from email %s is below the completeness threshold (%.2f)",
					jobs[i].JobID, email.ID, jobs[i].Metadata.CompletenessScore)
			}
		}
		batch.add(jobs...)
		summary.EmailsProcessed++
		summary.JobsEmitted += len(jobs)

		if tracker != nil {
			tracker.MarkProcessed(email.ID)
			if tracker.ShouldCheckpoint() {
				if err := batch.flush(); err != nil {
					return summary, err
				}
				if err := tracker.Checkpoint(); err != nil {
					return summary, err
				}
				ctx.Logger.Debug().Int("processed", summary.EmailsProcessed).Msg("checkpoint written")
			}
		}
	}

	if err := batch.flush(); err != nil {
		return summary, err
	}
	if tracker != nil {
		if err := tracker.Persist(); err != nil {
			return summary, err
		}
	}

	summary.JobsAdded = batch.added
	summary.JobsReplaced = batch.replaced
	summary.JobsTotal = len(batch.existing)
	return summary, nil
}

func runPrioritize(ctx *Context, force bool) (PrioritizeSummary, error) {
	cfg := ctx.Config
	force = force || cfg.Incremental.ForceFullReprocess

	jobs, err := store.ReadJSON(cfg.InputOutput.StructuredJSON)
	if err != nil {
		return PrioritizeSummary{}, err
	}
	if len(jobs) == 0 {
		return PrioritizeSummary{}, fmt.Errorf("no structured jobs at %s; run structure first", cfg.InputOutput.StructuredJSON)
	}

	scorer := prioritize.New(cfg)
	out := store.New(cfg.InputOutput.PrioritizedCSV, cfg.InputOutput.PrioritizedJSON, true, ctx.Logger)

	existing, err := out.Load()
	if err != nil {
		return PrioritizeSummary{}, err
	}

	var tracker *state.Tracker
	delta := make(map[string]struct{}, len(jobs))
	if cfg.Incremental.Enabled {
		tracker = state.NewTracker(cfg.PrioritizeStatePath(), cfg.Incremental.CheckpointInterval, ctx.Logger)
		ids, err := tracker.Diff(jobIDs(jobs), force)
		if err != nil {
			return PrioritizeSummary{}, err
		}
		for _, id := range ids {
			delta[id] = struct{}{}
		}
	} else {
		for _, j := range jobs {
			delta[j.JobID] = struct{}{}
		}
	}
	if force {
		existing = nil
	}

	summary := PrioritizeSummary{
		JobsTotal:   len(jobs),
		JobsSkipped: len(jobs) - len(delta),
		TierCounts:  map[string]int{},
		Forced:      force,
	}
	batch := &outputStore{store: out, existing: existing}

	for _, job := range jobs {
		if _, ok := delta[job.JobID]; !ok {
			continue
		}
		priority := scorer.Score(job)
		job.Priority = &priority
		batch.add(job)
		summary.JobsScored++
		summary.TierCounts[priority.Tier]++

		if tracker != nil {
			tracker.MarkProcessed(job.JobID)
			if tracker.ShouldCheckpoint() {
				if err := batch.flush(); err != nil {
					return summary, err
				}
				if err := tracker.Checkpoint(); err != nil {
					return summary, err
				}
			}
		}
	}

	if err := batch.flush(); err != nil {
		return summary, err
	}
	if tracker != nil {
		if err := tracker.Persist(); err != nil {
			return summary, err
		}
	}

	summary.ScoredInStore = len(batch.existing)
	return summary, nil
}

func jobIDs(jobs []models.JobPosting) []string {
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.JobID)
	}
	sort.Strings(ids)
	return ids
}

// loadRanked reads a prioritized output file (json or csv) and ranks it.
func loadRanked(path string) ([]models.JobPosting, error) {
	var (
		jobs []models.JobPosting
		err  error
	)
	if isCSVPath(path) {
		jobs, err = store.ReadCSV(path)
	} else {
		jobs, err = store.ReadJSON(path)
	}
	if err != nil {
		return nil, err
	}
	return prioritize.Rank(jobs), nil
}

func isCSVPath(path string) bool {
	return len(path) > 4 && path[len(path)-4:] == ".csv"
}