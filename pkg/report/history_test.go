package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRoundtrip(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.db"))

	when := time.Now().Truncate(time.Second)
	records := sampleRecords()
	require.NoError(t, h.Record("run-one", when, records))

	metas, err := h.List()
	require.NoError(t, err)
	require.Len(t, metas, 1)

	meta := metas[0]
	assert.Equal(t, "run-one", meta.ID)
	assert.Equal(t, 2, meta.Tests)
	assert.Equal(t, 1, meta.Failures, "timed-out record counts as a failure")
	assert.Equal(t, 0, meta.Leaks)
	assert.Equal(t, 1, meta.Zombies)
	assert.True(t, meta.Timestamp.Equal(when))

	got, err := h.Get("run-one")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestHistoryUnknownRun(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, h.Record("a", time.Now(), sampleRecords()))

	_, err := h.Get("nope")
	require.Error(t, err)
}

func TestHistoryMultipleRuns(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history.db"))

	require.NoError(t, h.Record("run-a", time.Now(), sampleRecords()))
	require.NoError(t, h.Record("run-b", time.Now(), sampleRecords()[:1]))

	metas, err := h.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "run-a", metas[0].ID)
	assert.Equal(t, "run-b", metas[1].ID)
}
