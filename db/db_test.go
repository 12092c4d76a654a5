package db

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDB(t *testing.T) (*Database, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	return NewDatabase(&JSONBackend{Path: path}, zap.NewNop().Sugar()), path
}

func TestGetCreatesDefaults(t *testing.T) {
	d, _ := newTestDB(t)

	s := d.UserStats(42)
	assert.Zero(t, s.Reminders)
	assert.Zero(t, s.Notes)
	assert.Zero(t, s.Downloads)
	assert.Equal(t, 1, s.TotalUsers)
}

func TestAddNoteEvictsOldestFirst(t *testing.T) {
	d, _ := newTestDB(t)

	for i := 0; i < MaxNotes+5; i++ {
		d.AddNote(1, fmt.Sprintf("note %d", i))
	}

	notes := d.Notes(1)
	require.Len(t, notes, MaxNotes)
	assert.Equal(t, "note 5", notes[0].Content)
	assert.Equal(t, fmt.Sprintf("note %d", MaxNotes+4), notes[len(notes)-1].Content)
}

func TestNoteIDsMonotonic(t *testing.T) {
	d, _ := newTestDB(t)

	d.AddNote(1, "a")
	d.AddNote(1, "b")
	d.AddNote(1, "c")

	notes := d.Notes(1)
	require.Len(t, notes, 3)
	assert.Less(t, notes[0].ID, notes[1].ID)
	assert.Less(t, notes[1].ID, notes[2].ID)
}

func TestClearNotesIdempotent(t *testing.T) {
	d, _ := newTestDB(t)

	d.AddNote(1, "something")
	d.ClearNotes(1)
	assert.Empty(t, d.Notes(1))

	d.ClearNotes(1)
	assert.Empty(t, d.Notes(1))
}

func TestAddReminderQuota(t *testing.T) {
	d, _ := newTestDB(t)

	for i := 0; i < MaxReminders; i++ {
		_, ok := d.AddReminder(1, Reminder{Message: "r"})
		require.True(t, ok)
	}

	_, ok := d.AddReminder(1, Reminder{Message: "overflow"})
	assert.False(t, ok)
	assert.Len(t, d.Reminders(1), MaxReminders)
}

func TestRemoveReminderByID(t *testing.T) {
	d, _ := newTestDB(t)

	first, ok := d.AddReminder(1, Reminder{Message: "first"})
	require.True(t, ok)
	_, ok = d.AddReminder(1, Reminder{Message: "second"})
	require.True(t, ok)

	assert.True(t, d.RemoveReminder(1, first.ID))
	assert.False(t, d.RemoveReminder(1, first.ID), "second removal of the same id must fail")

	rems := d.Reminders(1)
	require.Len(t, rems, 1)
	assert.Equal(t, "second", rems[0].Message)
}

func TestRegisterDownloadDailyReset(t *testing.T) {
	fc := clock.NewFake()
	clk = fc
	t.Cleanup(func() { clk = clock.New() })

	d, _ := newTestDB(t)

	for i := 0; i < MaxDownloadsPerDay; i++ {
		_, ok := d.RegisterDownload(1)
		require.True(t, ok)
	}

	_, ok := d.RegisterDownload(1)
	assert.False(t, ok, "quota must be exhausted")

	fc.Add(24 * time.Hour)

	remaining, ok := d.RegisterDownload(1)
	assert.True(t, ok, "counter must reset on a new day")
	assert.Equal(t, MaxDownloadsPerDay-1, remaining)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	d, path := newTestDB(t)

	d.AddNote(1, "remember me")
	d.AddReminder(1, Reminder{Message: "fire later", FireAt: time.Now().Add(time.Hour)})
	require.NoError(t, d.Save())

	d2 := NewDatabase(&JSONBackend{Path: path}, zap.NewNop().Sugar())
	d2.Load()

	notes := d2.Notes(1)
	require.Len(t, notes, 1)
	assert.Equal(t, "remember me", notes[0].Content)

	rems := d2.Reminders(1)
	require.Len(t, rems, 1)
	assert.Equal(t, "fire later", rems[0].Message)
}

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	d, _ := newTestDB(t)
	d.Load()

	assert.Equal(t, 1, d.UserStats(1).TotalUsers)
}

func TestLoadMalformedFileYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	d := NewDatabase(&JSONBackend{Path: path}, zap.NewNop().Sugar())
	d.Load()

	assert.Empty(t, d.Notes(1))
}

// Load must seed the ID generator past every persisted ID so restored state
// never collides with new notes and reminders.
func TestLoadKeepsIDsUnique(t *testing.T) {
	d, path := newTestDB(t)
	old, ok := d.AddReminder(1, Reminder{Message: "old"})
	require.True(t, ok)
	require.NoError(t, d.Save())

	d2 := NewDatabase(&JSONBackend{Path: path}, zap.NewNop().Sugar())
	d2.Load()

	fresh, ok := d2.AddReminder(1, Reminder{Message: "fresh"})
	require.True(t, ok)
	assert.NotEqual(t, old.ID, fresh.ID)
}
