// Package state tracks which source items a pipeline stage has already
// processed, enabling incremental runs and crash recovery. Each stage
// owns one Tracker backed by a newline-delimited id file written with
// temp-file-then-rename semantics; an interrupted write can never corrupt
// the previous valid state.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Phase is the tracker's position in its run lifecycle.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseDiffing       Phase = "diffing"
	PhaseProcessing    Phase = "processing"
	PhaseCheckpointing Phase = "checkpointing"
	PhasePersisted     Phase = "persisted"
)

const checkpointSuffix = ".checkpoint"

// Tracker is the incremental state machine for one pipeline stage.
// Not safe for concurrent use; the pipeline is a single sequential loop.
type Tracker struct {
	path     string
	interval int
	log      zerolog.Logger

	phase           Phase
	processed       map[string]struct{}
	sinceCheckpoint int
}

func NewTracker(path string, checkpointInterval int, logger zerolog.Logger) *Tracker {
	return &Tracker{
		path:      path,
		interval:  checkpointInterval,
		log:       logger,
		phase:     PhaseIdle,
		processed: map[string]struct{}{},
	}
}

// Phase returns the tracker's current lifecycle phase.
func (t *Tracker) Phase() Phase { return t.phase }

// ProcessedCount returns how many ids the tracker currently holds.
func (t *Tracker) ProcessedCount() int { return len(t.processed) }

// Diff loads durable state (state file plus any surviving checkpoint) and
// returns the ids not yet processed, preserving input order. With force
// set every input id is returned and durable state is cleared on disk
// before the caller rewrites any output: a forced run that dies mid-way
// must look unstarted to an unforced resume, or the ids it never reached
// would be skipped while the outputs hold only the partial rebuild. The
// caller must then merge in full-overwrite mode. An empty delta moves
// the tracker straight to Persisted: the run is a no-op.
func (t *Tracker) Diff(allIDs []string, force bool) ([]string, error) {
	t.phase = PhaseDiffing

	processed, err := LoadIDs(t.path)
	if err != nil {
		return nil, fmt.Errorf("load state %s: %w", t.path, err)
	}
	checkpoint, err := LoadIDs(t.path + checkpointSuffix)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", t.path+checkpointSuffix, err)
	}
	for id := range checkpoint {
		processed[id] = struct{}{}
	}
	if len(checkpoint) > 0 {
		t.log.Info().Int("ids", len(checkpoint)).Msg("recovered checkpoint from interrupted run")
	}
	t.processed = processed

	if force {
		t.processed = map[string]struct{}{}
		if err := SaveIDs(t.path, t.processed); err != nil {
			return nil, fmt.Errorf("reset state %s: %w", t.path, err)
		}
		if err := os.Remove(t.path + checkpointSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("clear checkpoint %s: %w", t.path+checkpointSuffix, err)
		}
		t.phase = PhaseProcessing
		return dedupe(allIDs), nil
	}

	var fresh []string
	seen := map[string]struct{}{}
	for _, id := range allIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, done := processed[id]; done {
			continue
		}
		fresh = append(fresh, id)
	}

	if len(fresh) == 0 {
		t.phase = PhasePersisted
		return nil, nil
	}
	t.phase = PhaseProcessing
	return fresh, nil
}

// MarkProcessed records one completed item.
func (t *Tracker) MarkProcessed(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	if _, dup := t.processed[id]; dup {
		return
	}
	t.processed[id] = struct{}{}
	t.sinceCheckpoint++
}

// ShouldCheckpoint reports whether checkpoint_interval items have been
// marked since the last durable flush. The caller flushes partial
// outputs first, then calls Checkpoint, bounding crash loss to less than
// one interval.
func (t *Tracker) ShouldCheckpoint() bool {
	return t.interval > 0 && t.sinceCheckpoint >= t.interval
}

// Checkpoint durably writes the current id set to the checkpoint file.
func (t *Tracker) Checkpoint() error {
	t.phase = PhaseCheckpointing
	if err := SaveIDs(t.path+checkpointSuffix, t.processed); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	t.log.Debug().Int("ids", len(t.processed)).Msg("checkpoint saved")
	t.sinceCheckpoint = 0
	t.phase = PhaseProcessing
	return nil
}

// Persist atomically writes the final id set and clears the checkpoint.
// The tracker reaches Persisted only after the rename succeeds.
func (t *Tracker) Persist() error {
	if err := SaveIDs(t.path, t.processed); err != nil {
		return fmt.Errorf("save state %s: %w", t.path, err)
	}
	if err := os.Remove(t.path + checkpointSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		t.log.Warn().Err(err).Msg("failed to clear checkpoint")
	}
	t.phase = PhasePersisted
	return nil
}

// LoadIDs reads a newline-delimited id file. A missing file is an empty
// set, not an error.
func LoadIDs(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]struct{}{}, nil
		}
		return nil, err
	}

	ids := map[string]struct{}{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids[line] = struct{}{}
		}
	}
	return ids, nil
}

// SaveIDs writes ids sorted, one per line, via a temp file renamed over
// the target. load(save(S)) == S as a set.
func SaveIDs(path string, ids map[string]struct{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	var b strings.Builder
	for _, id := range sorted {
		b.WriteString(id)
		b.WriteByte('\n')
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
