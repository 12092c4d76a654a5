package reminder

import (
	"container/heap"
	"time"
)

// entry is one armed reminder. The queue holds only the id reference back
// into the store; the persisted record lives in db.UserState.
type entry struct {
	usr     int64
	id      int64
	message string
	at      time.Time
}

type reminderQueue struct {
	entries []*entry
}

func NewReminderQueue() *reminderQueue {
	rq := &reminderQueue{entries: []*entry{}}
	heap.Init(rq)
	return rq
}

func (rq reminderQueue) Len() int {
	return len(rq.entries)
}

func (rq reminderQueue) Less(i, j int) bool {
	return rq.entries[i].at.Before(rq.entries[j].at)
}

func (rq reminderQueue) Swap(i, j int) {
	rq.entries[j], rq.entries[i] = rq.entries[i], rq.entries[j]
}

func (rq *reminderQueue) Push(e any) {
	ent, ok := e.(*entry)
	if !ok {
		return
	}
	rq.entries = append(rq.entries, ent)
}

func (rq *reminderQueue) Pop() any {
	if len(rq.entries) == 0 {
		return nil
	}

	n := len(rq.entries)
	popped := rq.entries[n-1]
	rq.entries = rq.entries[:n-1]
	return popped
}

func (rq *reminderQueue) Peek() any {
	if len(rq.entries) == 0 {
		return nil
	}
	return rq.entries[0]
}
