// This file is part of Vitimer.
//
// Vitimer is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Vitimer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Vitimer.  If not, see <https://www.gnu.org/licenses/>.

package scheduler

import (
	"container/heap"
	"fmt"
	"sort"
	"strings"

	"github.com/jetsetilly/vitimer/assert"
	"github.com/jetsetilly/vitimer/hardware/faults"
	"github.com/jetsetilly/vitimer/logger"
)

// Dispatcher is notified of every event as it fires.
type Dispatcher interface {
	Fire(kind Kind)
}

// Scheduler is the collection of pending hardware events.
type Scheduler struct {
	Label string

	perm       logger.Permission
	dispatcher Dispatcher

	queue   queue
	pending [NumKinds]*Event

	// the due cycle of the most recent firing for each kind
	lastFired [NumKinds]uint64
	hasFired  [NumKinds]bool

	// reused by AdvanceAndFire()
	fired []Kind
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. The dispatcher argument can be nil.
func NewScheduler(perm logger.Permission, dispatcher Dispatcher) *Scheduler {
	if perm == nil {
		perm = logger.Allow
	}
	return &Scheduler{
		perm:       perm,
		dispatcher: dispatcher,
		queue:      make(queue, 0, NumKinds),
		fired:      make([]Kind, 0, NumKinds),
	}
}

func (sch *Scheduler) String() string {
	evs := make([]*Event, len(sch.queue))
	copy(evs, sch.queue)
	sort.Slice(evs, func(i, j int) bool {
		return queue(evs).Less(i, j)
	})

	s := strings.Builder{}
	for _, ev := range evs {
		if sch.Label != "" {
			s.WriteString(sch.Label)
			s.WriteString(": ")
		}
		s.WriteString(ev.String())
		s.WriteString("\n")
	}
	return s.String()
}

// violation is called for any condition that indicates a programming error in
// the caller. the event is not scheduled and the PendingSet is unchanged
func (sch *Scheduler) violation(detail string, args ...any) error {
	err := fmt.Errorf("scheduler: %w: %s", faults.InvariantViolation, fmt.Sprintf(detail, args...))
	if assert.Enabled {
		panic(err)
	}
	logger.Log(sch.perm, "scheduler", err)
	return err
}

func (sch *Scheduler) checkInsert(kind Kind, due uint64) error {
	if !kind.Valid() {
		return sch.violation("unknown event kind (%d)", kind)
	}
	if sch.hasFired[kind] && due <= sch.lastFired[kind] {
		return sch.violation("%s event due on cycle %d but last fired on cycle %d", kind, due, sch.lastFired[kind])
	}
	return nil
}

func (sch *Scheduler) insert(kind Kind, due uint64, period uint64) {
	ev := &Event{Kind: kind, Due: due, Period: period}
	heap.Push(&sch.queue, ev)
	sch.pending[kind] = ev
}

// Schedule a periodic event. The event will first fire on the due cycle and
// then every period cycles after that.
//
// A period of zero is a configuration error. Scheduling an event for a kind
// that is already pending is an invariant violation. Use Replace() to change
// a pending event.
func (sch *Scheduler) Schedule(kind Kind, due uint64, period uint64) error {
	if period == 0 {
		return fmt.Errorf("scheduler: %w: period of %s event cannot be zero", faults.ConfigurationError, kind)
	}
	if err := sch.checkInsert(kind, due); err != nil {
		return err
	}
	if sch.pending[kind] != nil {
		return sch.violation("%s event is already pending", kind)
	}
	sch.insert(kind, due, period)
	return nil
}

// ScheduleOnce schedules an event that will fire once, on the due cycle.
func (sch *Scheduler) ScheduleOnce(kind Kind, due uint64) error {
	if err := sch.checkInsert(kind, due); err != nil {
		return err
	}
	if sch.pending[kind] != nil {
		return sch.violation("%s event is already pending", kind)
	}
	sch.insert(kind, due, 0)
	return nil
}

// Replace any pending event of the same kind with a new periodic event. It is
// not an error if there is no pending event of that kind.
//
// If the new event is invalid then any pending event is left unchanged.
func (sch *Scheduler) Replace(kind Kind, due uint64, period uint64) error {
	if period == 0 {
		return fmt.Errorf("scheduler: %w: period of %s event cannot be zero", faults.ConfigurationError, kind)
	}
	if err := sch.checkInsert(kind, due); err != nil {
		return err
	}
	sch.Cancel(kind)
	sch.insert(kind, due, period)
	return nil
}

// Cancel removes the pending event of the specified kind. Returns false if
// there was no event to cancel.
func (sch *Scheduler) Cancel(kind Kind) bool {
	if !kind.Valid() || sch.pending[kind] == nil {
		return false
	}
	heap.Remove(&sch.queue, sch.pending[kind].index)
	sch.pending[kind] = nil
	return true
}

// AdvanceAndFire fires every event that is due on or before the current
// cycle. Events fire in order of due cycle and then in order of kind.
//
// Periodic events are rescheduled from their previous due cycle. If that new
// due cycle is also on or before the current cycle the event will fire again
// during the same call.
//
// The returned slice lists the events in the order in which they fired. The
// slice is reused by the next call to AdvanceAndFire().
func (sch *Scheduler) AdvanceAndFire(current uint64) []Kind {
	sch.fired = sch.fired[:0]

	for len(sch.queue) > 0 {
		ev := sch.queue[0]
		if ev.Due > current {
			break
		}

		kind := ev.Kind
		sch.lastFired[kind] = ev.Due
		sch.hasFired[kind] = true
		sch.fired = append(sch.fired, kind)

		// the queue is updated before the dispatcher is called so that the
		// dispatcher's callbacks see a consistent scheduler
		if ev.Periodic() {
			ev.Due += ev.Period
			heap.Fix(&sch.queue, 0)
		} else {
			heap.Pop(&sch.queue)
			sch.pending[kind] = nil
		}

		if sch.dispatcher != nil {
			sch.dispatcher.Fire(kind)
		}
	}

	return sch.fired
}

// PeekNextDeadline returns the cycle on which the next event is due. The
// interpreter can safely execute up to this cycle before checking the
// scheduler again. Returns false if there are no pending events.
func (sch *Scheduler) PeekNextDeadline() (uint64, bool) {
	if len(sch.queue) == 0 {
		return 0, false
	}
	return sch.queue[0].Due, true
}

// Pending returns a copy of the pending event for the kind.
func (sch *Scheduler) Pending(kind Kind) (Event, bool) {
	if !kind.Valid() || sch.pending[kind] == nil {
		return Event{}, false
	}
	return *sch.pending[kind], true
}

// LastFired returns the due cycle of the most recent firing of the kind.
func (sch *Scheduler) LastFired(kind Kind) (uint64, bool) {
	if !kind.Valid() {
		return 0, false
	}
	return sch.lastFired[kind], sch.hasFired[kind]
}

// Len returns the number of pending events.
func (sch *Scheduler) Len() int {
	return len(sch.queue)
}

// Reset forgets all pending events and all firing history.
func (sch *Scheduler) Reset() {
	for i := range sch.queue {
		sch.queue[i] = nil
	}
	sch.queue = sch.queue[:0]
	sch.pending = [NumKinds]*Event{}
	sch.lastFired = [NumKinds]uint64{}
	sch.hasFired = [NumKinds]bool{}
	sch.fired = sch.fired[:0]
}
