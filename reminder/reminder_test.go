package reminder

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"helperbot/db"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capture struct {
	mu   sync.Mutex
	sent []string
}

func (c *capture) send(usr int64, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message)
}

func (c *capture) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func newTestDB(t *testing.T) *db.Database {
	t.Helper()
	backend := &db.JSONBackend{Path: filepath.Join(t.TempDir(), "state.json")}
	return db.NewDatabase(backend, zap.NewNop().Sugar())
}

func newTestManager(t *testing.T) (*Manager, *db.Database, *capture, clock.FakeClock) {
	t.Helper()

	fc := clock.NewFake()
	clk = fc
	t.Cleanup(func() { clk = clock.New() })

	d := newTestDB(t)
	c := &capture{}
	return NewManager(d, c.send, zap.NewNop().Sugar()), d, c, fc
}

func TestScheduleQuota(t *testing.T) {
	m, d, _, _ := newTestManager(t)

	for i := 0; i < db.MaxReminders; i++ {
		_, err := m.Schedule(1, "ping", Relative{Amount: 5, Unit: "m"})
		require.NoError(t, err)
	}

	_, err := m.Schedule(1, "one too many", Relative{Amount: 5, Unit: "m"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Len(t, d.Reminders(1), db.MaxReminders)
}

func TestFireRemovesExactlyOne(t *testing.T) {
	m, d, c, fc := newTestManager(t)

	rem, err := m.Schedule(1, "Call mom", Relative{Amount: 30, Unit: "m"})
	require.NoError(t, err)
	assert.Equal(t, fc.Now().Add(30*time.Minute), rem.FireAt)

	_, err = m.Schedule(1, "much later", Relative{Amount: 2, Unit: "d"})
	require.NoError(t, err)

	fc.Add(time.Hour)
	m.fireDue()

	assert.Equal(t, []string{"Call mom"}, c.messages())
	require.Len(t, d.Reminders(1), 1)
	assert.Equal(t, "much later", d.Reminders(1)[0].Message)
}

// A duplicate queue entry for an already-fired id must neither deliver twice
// nor remove a second reminder.
func TestDoubleFire(t *testing.T) {
	m, d, c, fc := newTestManager(t)

	rem, err := m.Schedule(1, "once only", Relative{Amount: 1, Unit: "m"})
	require.NoError(t, err)
	_, err = m.Schedule(1, "bystander", Relative{Amount: 1, Unit: "d"})
	require.NoError(t, err)

	// simulate a re-armed duplicate of the same reminder
	m.push(&entry{usr: 1, id: rem.ID, message: rem.Message, at: rem.FireAt})

	fc.Add(2 * time.Minute)
	m.fireDue()

	assert.Equal(t, []string{"once only"}, c.messages())
	assert.Len(t, d.Reminders(1), 1)
}

func TestFireOrder(t *testing.T) {
	m, _, c, fc := newTestManager(t)

	_, err := m.Schedule(1, "second", Relative{Amount: 20, Unit: "m"})
	require.NoError(t, err)
	_, err = m.Schedule(1, "first", Relative{Amount: 10, Unit: "m"})
	require.NoError(t, err)

	fc.Add(30 * time.Minute)
	m.fireDue()

	assert.Equal(t, []string{"first", "second"}, c.messages())
}

func TestRestoreReArmsPersistedReminders(t *testing.T) {
	fc := clock.NewFake()
	clk = fc
	t.Cleanup(func() { clk = clock.New() })

	d := newTestDB(t)
	now := fc.Now()

	// reminders written by a previous process run
	_, ok := d.AddReminder(7, db.Reminder{Message: "overdue", FireAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)})
	require.True(t, ok)
	_, ok = d.AddReminder(7, db.Reminder{Message: "upcoming", FireAt: now.Add(time.Hour), CreatedAt: now.Add(-time.Hour)})
	require.True(t, ok)

	c := &capture{}
	m := NewManager(d, c.send, zap.NewNop().Sugar())
	m.Restore()

	m.fireDue()
	assert.Equal(t, []string{"overdue"}, c.messages())

	fc.Add(2 * time.Hour)
	m.fireDue()
	assert.Equal(t, []string{"overdue", "upcoming"}, c.messages())
	assert.Empty(t, d.Reminders(7))
}
