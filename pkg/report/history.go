package report

// Local run history using bolt

// Connection is opened automatically on each call
// Buckets are created if they don't exist, when recording a run

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gsea-project/gsea-bench/pkg/bench"
	bolt "go.etcd.io/bbolt"
)

const OPEN_PERMS = 0o600

var (
	BUCKET_RUNS    = []byte("runs")
	BUCKET_RECORDS = []byte("records")
)

// RunMeta is the per-run index entry stored alongside the full records.
type RunMeta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Tests     int       `json:"tests"`
	Failures  int       `json:"failures"`
	Leaks     int       `json:"leaks"`
	Zombies   int       `json:"zombies"`
}

type History struct {
	path string
}

func NewHistory(path string) *History {
	return &History{path: path}
}

func (h *History) openRO() (*bolt.DB, error) {
	return bolt.Open(h.path, OPEN_PERMS, &bolt.Options{ReadOnly: true})
}

func (h *History) openRW() (*bolt.DB, error) {
	return bolt.Open(h.path, OPEN_PERMS, nil)
}

// Record persists one completed run: an index entry under the runs bucket
// and the full record list under a nested bucket keyed by run ID.
func (h *History) Record(runID string, when time.Time, records []bench.RunRecord) error {
	meta := RunMeta{ID: runID, Timestamp: when, Tests: len(records)}
	for _, r := range records {
		if r.ExitCode != 0 {
			meta.Failures++
		}
		if r.LeaksDetected {
			meta.Leaks++
		}
		if r.ZombiesDetected {
			meta.Zombies++
		}
	}

	conn, err := h.openRW()
	if err != nil {
		return fmt.Errorf("could not open history db: %w", err)
	}
	defer conn.Close()

	return conn.Update(func(tx *bolt.Tx) error {
		runs, err := tx.CreateBucketIfNotExists(BUCKET_RUNS)
		if err != nil {
			return err
		}
		metaBytes, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		if err := runs.Put([]byte(runID), metaBytes); err != nil {
			return err
		}

		recordsRoot, err := tx.CreateBucketIfNotExists(BUCKET_RECORDS)
		if err != nil {
			return err
		}
		run, err := recordsRoot.CreateBucketIfNotExists([]byte(runID))
		if err != nil {
			return err
		}
		for i, r := range records {
			v, err := json.Marshal(r)
			if err != nil {
				return err
			}
			if err := run.Put([]byte(fmt.Sprintf("%06d", i)), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the index entries of all recorded runs, oldest first by run
// ID (xid run IDs sort chronologically).
func (h *History) List() ([]RunMeta, error) {
	conn, err := h.openRO()
	if err != nil {
		return nil, fmt.Errorf("could not open history db: %w", err)
	}
	defer conn.Close()

	var metas []RunMeta
	err = conn.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket(BUCKET_RUNS)
		if runs == nil {
			return nil
		}
		return runs.ForEach(func(k, v []byte) error {
			var meta RunMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			metas = append(metas, meta)
			return nil
		})
	})

	return metas, err
}

// Get returns the full record list of one run, in the order the tests ran.
func (h *History) Get(runID string) ([]bench.RunRecord, error) {
	conn, err := h.openRO()
	if err != nil {
		return nil, fmt.Errorf("could not open history db: %w", err)
	}
	defer conn.Close()

	var records []bench.RunRecord
	err = conn.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(BUCKET_RECORDS)
		if root == nil {
			return fmt.Errorf("run not found: %s", runID)
		}
		run := root.Bucket([]byte(runID))
		if run == nil {
			return fmt.Errorf("run not found: %s", runID)
		}
		return run.ForEach(func(k, v []byte) error {
			var r bench.RunRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return err
			}
			records = append(records, r)
			return nil
		})
	})

	return records, err
}
