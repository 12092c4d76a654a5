package reminder

import (
	"container/heap"
	"sync"
	"time"

	"helperbot/db"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const reminderTick = time.Second

var clk = clock.New()

// ErrQuotaExceeded means the user already holds the maximum number of active
// reminders. User-visible, not a fault.
var ErrQuotaExceeded = errors.New("reminder limit reached")

// SendFunc delivers a fired reminder to its owner. Delivery failure does not
// restore the reminder.
type SendFunc func(usr int64, message string)

// Manager owns the deferred-delivery mechanism: a min-heap of armed entries
// keyed by fire time, drained by a ticker loop. The heap is rebuilt from the
// store on restart, so reminders survive process restarts.
type Manager struct {
	db     *db.Database
	logger *zap.SugaredLogger
	send   SendFunc

	mu    sync.Mutex
	queue *reminderQueue
	stop  chan struct{}
}

func NewManager(d *db.Database, send SendFunc, l *zap.SugaredLogger) *Manager {
	return &Manager{
		db:     d,
		logger: l,
		send:   send,
		queue:  NewReminderQueue(),
		stop:   make(chan struct{}),
	}
}

// Restore re-arms every reminder found in the store. Entries whose fire time
// already passed are delivered on the first tick.
func (m *Manager) Restore() {
	n := 0
	for usr, rems := range m.db.AllReminders() {
		for _, r := range rems {
			m.push(&entry{usr: usr, id: r.ID, message: r.Message, at: r.FireAt})
			n++
		}
	}

	if n > 0 {
		m.logger.Infof("re-armed %d reminders from persisted state", n)
	}
}

// Schedule creates a reminder for usr and arms it. Returns ErrQuotaExceeded
// without mutating anything when the user is at the reminder limit.
func (m *Manager) Schedule(usr int64, message string, spec TimeSpec) (db.Reminder, error) {
	now := clk.Now()
	rem, ok := m.db.AddReminder(usr, db.Reminder{
		Message:   message,
		FireAt:    spec.When(now),
		CreatedAt: now,
	})
	if !ok {
		return db.Reminder{}, ErrQuotaExceeded
	}

	m.push(&entry{usr: usr, id: rem.ID, message: rem.Message, at: rem.FireAt})

	m.logger.Infow("reminder scheduled", "usr", usr, "id", rem.ID, "at", rem.FireAt)
	return rem, nil
}

// Run drains due reminders until Stop is called.
func (m *Manager) Run() {
	t := time.NewTicker(reminderTick)
	defer t.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			m.fireDue()
		}
	}
}

func (m *Manager) Stop() {
	close(m.stop)
}

func (m *Manager) push(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	heap.Push(m.queue, e)
}

// fireDue pops and delivers every entry due at the current clock reading.
// Removal from the store by id is the exactly-once guard: a duplicate entry
// for an id that already fired finds nothing to remove and is dropped without
// delivery.
func (m *Manager) fireDue() {
	now := clk.Now()
	fired := 0

	for {
		m.mu.Lock()
		e, ok := m.queue.Peek().(*entry)
		if !ok || now.Before(e.at) {
			m.mu.Unlock()
			break
		}
		heap.Pop(m.queue)
		m.mu.Unlock()

		if !m.db.RemoveReminder(e.usr, e.id) {
			continue
		}

		m.logger.Infow("delivering reminder", "usr", e.usr, "id", e.id)
		m.send(e.usr, e.message)
		fired++
	}

	if fired > 0 {
		if err := m.db.Save(); err != nil {
			m.logger.Errorw("failed persisting user data after reminders", "err", err)
		}
	}
}
