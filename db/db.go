package db

import (
	"sync"

	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

const (
	MaxNotes           = 50
	MaxReminders       = 10
	MaxDownloadsPerDay = 5
)

var clk = clock.New()

// Backend persists the whole user mapping wholesale. Overwrite semantics,
// last writer wins.
type Backend interface {
	Load() (map[int64]*UserState, error)
	Save(users map[int64]*UserState) error
}

// Database owns the process-wide user mapping. Reminder timers fire on their
// own schedule relative to command dispatch, so every access goes through the
// mutex.
type Database struct {
	mu      sync.Mutex
	users   map[int64]*UserState
	backend Backend
	logger  *zap.SugaredLogger
	lastID  int64
}

func NewDatabase(b Backend, l *zap.SugaredLogger) *Database {
	return &Database{
		users:   make(map[int64]*UserState),
		backend: b,
		logger:  l,
	}
}

// Load replaces the in-memory mapping with whatever the backend has.
// Best-effort: absent or malformed backing data leaves an empty mapping and
// is never fatal.
func (d *Database) Load() {
	users, err := d.backend.Load()
	if err != nil {
		d.logger.Errorw("failed loading user data; starting empty", "err", err)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.users = users
	for _, u := range users {
		for _, n := range u.Notes {
			if n.ID > d.lastID {
				d.lastID = n.ID
			}
		}
		for _, r := range u.Reminders {
			if r.ID > d.lastID {
				d.lastID = r.ID
			}
		}
	}

	d.logger.Infof("loaded state for %d users", len(users))
}

// Save writes the whole mapping through the backend.
func (d *Database) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.backend.Save(d.users)
}

// get returns the state for usr, creating zero-value defaults on first
// access. Callers must hold the mutex.
func (d *Database) get(usr int64) *UserState {
	u, ok := d.users[usr]
	if !ok {
		u = &UserState{}
		d.users[usr] = u
	}
	return u
}

// nextID hands out unique monotonic tokens. IDs are creation timestamps in
// milliseconds, bumped past the previous one on collision. Callers must hold
// the mutex.
func (d *Database) nextID() int64 {
	id := clk.Now().UnixMilli()
	if id <= d.lastID {
		id = d.lastID + 1
	}
	d.lastID = id
	return id
}

// Touch makes sure state exists for usr.
func (d *Database) Touch(usr int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.get(usr)
}

// AddNote appends a note and returns the new note count. Once the list holds
// MaxNotes entries the oldest ones are evicted first.
func (d *Database) AddNote(usr int64, content string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.get(usr)
	u.Notes = append(u.Notes, Note{
		ID:        d.nextID(),
		Content:   content,
		CreatedAt: clk.Now(),
	})
	if len(u.Notes) > MaxNotes {
		u.Notes = u.Notes[len(u.Notes)-MaxNotes:]
	}
	return len(u.Notes)
}

// Notes returns a copy of the user's notes, oldest first.
func (d *Database) Notes(usr int64) []Note {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.get(usr)
	notes := make([]Note, len(u.Notes))
	copy(notes, u.Notes)
	return notes
}

// ClearNotes drops all notes. Idempotent.
func (d *Database) ClearNotes(usr int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.get(usr).Notes = nil
}

// AddReminder stores rem with a fresh ID and returns the stored record. ok is
// false when the user already holds MaxReminders active reminders; the state
// is left untouched in that case.
func (d *Database) AddReminder(usr int64, rem Reminder) (Reminder, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.get(usr)
	if len(u.Reminders) >= MaxReminders {
		return Reminder{}, false
	}

	rem.ID = d.nextID()
	u.Reminders = append(u.Reminders, rem)
	return rem, true
}

// RemoveReminder deletes the reminder with the given ID. Returns false when
// no such reminder exists, which is how a second fire of the same ID is told
// apart from the first.
func (d *Database) RemoveReminder(usr, id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.get(usr)
	for i, r := range u.Reminders {
		if r.ID == id {
			u.Reminders = append(u.Reminders[:i], u.Reminders[i+1:]...)
			return true
		}
	}
	return false
}

// Reminders returns a copy of the user's active reminders.
func (d *Database) Reminders(usr int64) []Reminder {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.get(usr)
	rems := make([]Reminder, len(u.Reminders))
	copy(rems, u.Reminders)
	return rems
}

// AllReminders snapshots every user's active reminders, keyed by user. Used
// by the scheduler to re-arm timers after a restart.
func (d *Database) AllReminders() map[int64][]Reminder {
	d.mu.Lock()
	defer d.mu.Unlock()

	all := make(map[int64][]Reminder)
	for usr, u := range d.users {
		if len(u.Reminders) == 0 {
			continue
		}
		rems := make([]Reminder, len(u.Reminders))
		copy(rems, u.Reminders)
		all[usr] = rems
	}
	return all
}

// RegisterDownload counts one media save against the user's daily quota. The
// counter resets when the calendar day changes. ok is false once the quota is
// exhausted; remaining is how many saves are left for today.
func (d *Database) RegisterDownload(usr int64) (remaining int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.get(usr)
	now := clk.Now()

	ny, nm, nd := now.Date()
	ly, lm, ld := u.LastDownload.Date()
	if ny != ly || nm != lm || nd != ld {
		u.Downloads = 0
	}

	if u.Downloads >= MaxDownloadsPerDay {
		return 0, false
	}

	u.Downloads++
	u.LastDownload = now
	return MaxDownloadsPerDay - u.Downloads, true
}

// UserStats reports per-user counters plus the total user count.
func (d *Database) UserStats(usr int64) Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	u := d.get(usr)
	return Stats{
		Reminders:  len(u.Reminders),
		Notes:      len(u.Notes),
		Downloads:  u.Downloads,
		TotalUsers: len(d.users),
	}
}
