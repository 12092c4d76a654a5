package db

import "time"

// Note is a single saved note. Immutable once created; notes only go away
// when the user clears the whole list.
type Note struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reminder is the persisted half of a scheduled reminder. The scheduler keeps
// an armed entry referencing it by ID; the record stays here for display and
// quota accounting until the scheduler fires and removes it.
type Reminder struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	FireAt    time.Time `json:"fireAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserState is everything the bot remembers about one user.
type UserState struct {
	Reminders    []Reminder `json:"reminders"`
	Notes        []Note     `json:"notes"`
	Downloads    int        `json:"downloads"`
	LastDownload time.Time  `json:"lastDownload"`
}

// Stats is a read-only snapshot used by the stats command.
type Stats struct {
	Reminders  int
	Notes      int
	Downloads  int
	TotalUsers int
}
