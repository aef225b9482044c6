package cmd

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/models"
	"github.com/jobsift/jobsift/internal/state"
	"github.com/jobsift/jobsift/internal/store"
	"github.com/jobsift/jobsift/internal/ui"
	"github.com/rs/zerolog"
)

func testContext(t *testing.T) (*Context, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Incremental.StateDirectory = filepath.Join(dir, "state")
	cfg.InputOutput.EmailsInput = filepath.Join(dir, "emails.csv")
	cfg.InputOutput.StructuredCSV = filepath.Join(dir, "structured.csv")
	cfg.InputOutput.StructuredJSON = filepath.Join(dir, "structured.json")
	cfg.InputOutput.PrioritizedCSV = filepath.Join(dir, "prioritized.csv")
	cfg.InputOutput.PrioritizedJSON = filepath.Join(dir, "prioritized.json")

	return &Context{
		Out:    io.Discard,
		Err:    io.Discard,
		UI:     ui.New(io.Discard, io.Discard, ui.ColorNever, true),
		Config: cfg,
		Logger: zerolog.Nop(),
	}, dir
}

func writeEmails(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := append([][]string{{"message_id", "subject", "body", "date"}}, rows...)
	if err := w.WriteAll(records); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	ctx, _ := testContext(t)

	writeEmails(t, ctx.Config.InputOutput.EmailsInput, [][]string{
		{"m1", "Hiring at TCS", "TCS hiring software engineer freshers in Bangalore. Skills: Python, SQL. 8-12 LPA. Apply by 2026-01-31.", "2025-11-01"},
		{"m2", "Data analyst opening", "Infosys needs a data analyst in Pune. Skills: SQL, Excel. 4 LPA.", "2025-11-02"},
	})

	first, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() error = %v", err)
	}
	if first.EmailsProcessed != 2 {
		t.Fatalf("EmailsProcessed = %d, want 2", first.EmailsProcessed)
	}
	if first.JobsEmitted == 0 || first.JobsAdded != first.JobsEmitted {
		t.Fatalf("summary = %+v, want every emitted job added", first)
	}

	second, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() (2nd) error = %v", err)
	}
	if second.EmailsProcessed != 0 || second.EmailsSkipped != 2 {
		t.Fatalf("second run = %+v, want a no-op", second)
	}
	if second.JobsTotal != first.JobsTotal {
		t.Fatalf("JobsTotal changed on no-op run: %d vs %d", second.JobsTotal, first.JobsTotal)
	}

	scored, err := runPrioritize(ctx, false)
	if err != nil {
		t.Fatalf("runPrioritize() error = %v", err)
	}
	if scored.JobsScored != first.JobsTotal {
		t.Fatalf("JobsScored = %d, want %d", scored.JobsScored, first.JobsTotal)
	}

	prioritized, err := store.ReadJSON(ctx.Config.InputOutput.PrioritizedJSON)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	for _, job := range prioritized {
		if job.Priority == nil {
			t.Fatalf("job %s has no priority after scoring", job.JobID)
		}
	}
}

func TestPipelinePicksUpNewEmails(t *testing.T) {
	ctx, _ := testContext(t)

	base := [][]string{
		{"m1", "Hiring at TCS", "TCS hiring software engineer freshers. Skills: Python. 8 LPA.", "2025-11-01"},
	}
	writeEmails(t, ctx.Config.InputOutput.EmailsInput, base)
	first, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() error = %v", err)
	}

	writeEmails(t, ctx.Config.InputOutput.EmailsInput, append(base, []string{
		"m2", "QA opening", "Wipro needs a qa engineer in Chennai. Skills: java. 5 LPA.", "2025-11-02",
	}))
	second, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() (2nd) error = %v", err)
	}
	if second.EmailsProcessed != 1 || second.EmailsSkipped != 1 {
		t.Fatalf("second run = %+v, want only the new email processed", second)
	}
	if second.JobsTotal <= first.JobsTotal {
		t.Fatalf("JobsTotal = %d, want growth over %d", second.JobsTotal, first.JobsTotal)
	}
}

func TestForceReplacesOutputs(t *testing.T) {
	ctx, _ := testContext(t)

	writeEmails(t, ctx.Config.InputOutput.EmailsInput, [][]string{
		{"m1", "Hiring at TCS", "TCS hiring software engineer freshers. Skills: Python. 8 LPA.", "2025-11-01"},
	})
	first, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() error = %v", err)
	}

	forced, err := runStructure(ctx, "", true)
	if err != nil {
		t.Fatalf("runStructure(force) error = %v", err)
	}
	if forced.EmailsProcessed != 1 || !forced.Forced {
		t.Fatalf("forced run = %+v, want full reprocess", forced)
	}
	if forced.JobsTotal != first.JobsTotal {
		t.Fatalf("JobsTotal = %d, want %d (identical corpus)", forced.JobsTotal, first.JobsTotal)
	}
}

func TestStructureWarnsOnLowCompleteness(t *testing.T) {
	ctx, _ := testContext(t)
	var stderr bytes.Buffer
	ctx.UI = ui.New(io.Discard, &stderr, ui.ColorNever, true)

	// position only: no company, skills, or any important field
	writeEmails(t, ctx.Config.InputOutput.EmailsInput, [][]string{
		{"m1", "Opening", "We are looking for a data analyst.", "2025-11-01"},
	})
	summary, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() error = %v", err)
	}
	if summary.JobsEmitted == 0 {
		t.Fatal("JobsEmitted = 0, want the sparse job kept")
	}
	if !strings.Contains(stderr.String(), "completeness") {
		t.Fatalf("stderr = %q, want a completeness warning", stderr.String())
	}
}

func TestForcedCrashThenUnforcedResumeKeepsAllRecords(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := ctx.Config

	writeEmails(t, cfg.InputOutput.EmailsInput, [][]string{
		{"m1", "Hiring at TCS", "TCS hiring software engineer freshers. Skills: Python. 8 LPA.", "2025-11-01"},
		{"m2", "QA opening", "Wipro needs a qa engineer in Chennai. Skills: java. 5 LPA.", "2025-11-02"},
	})
	first, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() error = %v", err)
	}

	// forced rerun that dies right after its first checkpoint: the
	// outputs hold only m1's rebuild and the checkpoint only m1's id
	all, err := store.ReadJSON(cfg.InputOutput.StructuredJSON)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	var partial []models.JobPosting
	for _, j := range all {
		if j.EmailID == "m1" {
			partial = append(partial, j)
		}
	}
	tracker := state.NewTracker(cfg.StructureStatePath(), 1, zerolog.Nop())
	if _, err := tracker.Diff([]string{"m1", "m2"}, true); err != nil {
		t.Fatalf("Diff(force) error = %v", err)
	}
	out := store.New(cfg.InputOutput.StructuredCSV, cfg.InputOutput.StructuredJSON, false, zerolog.Nop())
	merged, _ := out.Merge(nil, partial)
	if err := out.Save(merged); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	tracker.MarkProcessed("m1")
	if err := tracker.Checkpoint(); err != nil {
		t.Fatalf("Checkpoint() error = %v", err)
	}

	resumed, err := runStructure(ctx, "", false)
	if err != nil {
		t.Fatalf("runStructure() after crash error = %v", err)
	}
	if resumed.EmailsProcessed != 1 || resumed.EmailsSkipped != 1 {
		t.Fatalf("resume = %+v, want the unrebuilt email reprocessed", resumed)
	}
	if resumed.JobsTotal != first.JobsTotal {
		t.Fatalf("JobsTotal = %d, want %d (nothing lost)", resumed.JobsTotal, first.JobsTotal)
	}

	final, err := store.ReadJSON(cfg.InputOutput.StructuredJSON)
	if err != nil {
		t.Fatalf("ReadJSON() (final) error = %v", err)
	}
	sources := map[string]bool{}
	for _, j := range final {
		sources[j.EmailID] = true
	}
	if !sources["m1"] || !sources["m2"] {
		t.Fatalf("emails in final store = %v, want both m1 and m2", sources)
	}
}

func TestPrioritizeForcedCrashThenUnforcedResume(t *testing.T) {
	ctx, _ := testContext(t)
	cfg := ctx.Config

	writeEmails(t, cfg.InputOutput.EmailsInput, [][]string{
		{"m1", "Hiring at TCS", "TCS hiring software engineer freshers. Skills: Python, SQL. 8 LPA.", "2025-11-01"},
		{"m2", "Data analyst opening", "Infosys needs a data analyst in Pune. Skills: SQL. 4 LPA.", "2025-11-02"},
	})
	if _, err := runStructure(ctx, "", false); err != nil {
		t.Fatalf("runStructure() error = %v", err)
	}
	full, err := runPrioritize(ctx, false)
	if err != nil {
		t.Fatalf("runPrioritize() error = %v", err)
	}

	// forced rescore that dies after checkpointing a single job
	scored, err := store.ReadJSON(cfg.InputOutput.PrioritizedJSON)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(scored) < 2 {
		t.Fatalf("len(scored) = %d, want at least 2", len(scored))
	}
	tracker := state.NewTracker(cfg.PrioritizeStatePath(), 1, zerolog.Nop())
	if _, err := tracker.Diff(jobIDs(scored), true); err != nil {
		t.Fatalf("Diff(force) error = %v", err)
	}
	out := store.New(cfg.InputOutput.PrioritizedCSV, cfg.InputOutput.PrioritizedJSON, true, zerolog.Nop())
	merged, _ := out.Merge(nil, scored[:1])
	if err := out.Save(merged); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	tracker.MarkProcessed(scored[0].JobID)
	if err := tracker.Checkpoint(); err != nil {
		t.Fatalf("Checkpoint() error = %v", err)
	}

	resumed, err := runPrioritize(ctx, false)
	if err != nil {
		t.Fatalf("runPrioritize() after crash error = %v", err)
	}
	if resumed.JobsScored != full.JobsTotal-1 {
		t.Fatalf("JobsScored = %d, want %d", resumed.JobsScored, full.JobsTotal-1)
	}
	if resumed.ScoredInStore != full.ScoredInStore {
		t.Fatalf("ScoredInStore = %d, want %d (nothing lost)", resumed.ScoredInStore, full.ScoredInStore)
	}
	final, err := store.ReadJSON(cfg.InputOutput.PrioritizedJSON)
	if err != nil {
		t.Fatalf("ReadJSON() (final) error = %v", err)
	}
	for _, j := range final {
		if j.Priority == nil {
			t.Fatalf("job %s lost its score after resume", j.JobID)
		}
	}
}

func TestLoadRankedFromJSONAndCSV(t *testing.T) {
	ctx, _ := testContext(t)

	writeEmails(t, ctx.Config.InputOutput.EmailsInput, [][]string{
		{"m1", "Hiring at TCS", "TCS hiring software engineer freshers. Skills: Python, SQL. 8 LPA. Work from home.", "2025-11-01"},
		{"m2", "Data analyst opening", "Unknown startup needs a data analyst in Indore. Skills: Excel.", "2025-11-02"},
	})
	if _, err := runStructure(ctx, "", false); err != nil {
		t.Fatalf("runStructure() error = %v", err)
	}
	if _, err := runPrioritize(ctx, false); err != nil {
		t.Fatalf("runPrioritize() error = %v", err)
	}

	fromJSON, err := loadRanked(ctx.Config.InputOutput.PrioritizedJSON)
	if err != nil {
		t.Fatalf("loadRanked(json) error = %v", err)
	}
	fromCSV, err := loadRanked(ctx.Config.InputOutput.PrioritizedCSV)
	if err != nil {
		t.Fatalf("loadRanked(csv) error = %v", err)
	}
	if len(fromJSON) == 0 || len(fromJSON) != len(fromCSV) {
		t.Fatalf("len(json) = %d, len(csv) = %d, want equal and non-zero", len(fromJSON), len(fromCSV))
	}
	for i := range fromJSON {
		if fromJSON[i].JobID != fromCSV[i].JobID {
			t.Fatalf("rank order diverges at %d: %s vs %s", i, fromJSON[i].JobID, fromCSV[i].JobID)
		}
	}

	// ranked best-first
	for i := 1; i < len(fromJSON); i++ {
		if fromJSON[i-1].Priority.FinalScore < fromJSON[i].Priority.FinalScore {
			t.Fatalf("ranking not descending at %d", i)
		}
	}
}
