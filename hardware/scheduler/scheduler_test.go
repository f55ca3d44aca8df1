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

package scheduler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jetsetilly/vitimer/assert"
	"github.com/jetsetilly/vitimer/hardware/faults"
	"github.com/jetsetilly/vitimer/hardware/scheduler"
	"github.com/jetsetilly/vitimer/logger"
	"github.com/jetsetilly/vitimer/test"
)

// firing records the kind and due cycle of every event as it is fired
type firing struct {
	kind scheduler.Kind
	due  uint64
}

type recorder struct {
	sch     *scheduler.Scheduler
	firings []firing
}

func (r *recorder) Fire(kind scheduler.Kind) {
	due, _ := r.sch.LastFired(kind)
	r.firings = append(r.firings, firing{kind: kind, due: due})
}

func newRecorder() *recorder {
	r := &recorder{}
	r.sch = scheduler.NewScheduler(logger.Allow, r)
	return r
}

func TestDriftFreeRescheduling(t *testing.T) {
	r := newRecorder()

	const period = 1562500
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, period, period))

	// irregular deltas that are never multiples of the period. some are
	// larger than the period so that more than one firing occurs in a single
	// call
	deltas := []uint64{1, 999, 1562499, 7, 3000001, 123457, 1562500, 98765, 4687501, 11}

	var now uint64
	for range 200 {
		for _, d := range deltas {
			now += d
			r.sch.AdvanceAndFire(now)
		}
	}

	test.DemandEquality(t, len(r.firings) > 0, true)
	for k, f := range r.firings {
		test.ExpectEquality(t, f.kind, scheduler.VideoInterrupt)
		test.ExpectEquality(t, f.due, uint64(k+1)*period, k)
	}

	// every firing up to the current cycle has happened and the next is in
	// the future
	test.ExpectEquality(t, uint64(len(r.firings)), now/period)
	next, ok := r.sch.PeekNextDeadline()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, next, uint64(len(r.firings)+1)*period)
}

func TestDriftFreeFromCycleZero(t *testing.T) {
	r := newRecorder()

	const period = 1000
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 0, period))

	var now uint64
	for _, d := range []uint64{0, 333, 333, 333, 1, 2500, 17, 5000} {
		now += d
		r.sch.AdvanceAndFire(now)
	}

	for k, f := range r.firings {
		test.ExpectEquality(t, f.due, uint64(k)*period)
	}
	test.ExpectEquality(t, uint64(len(r.firings)), now/period+1)
}

func TestSameCycleOrdering(t *testing.T) {
	for range 50 {
		r := newRecorder()

		// scheduled in reverse priority order
		test.DemandSuccess(t, r.sch.ScheduleOnce(scheduler.PeripheralInterrupt, 100))
		test.DemandSuccess(t, r.sch.Schedule(scheduler.CompareTimer, 100, 50))
		test.DemandSuccess(t, r.sch.Schedule(scheduler.AudioInterrupt, 100, 25))
		test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 100))

		fired := r.sch.AdvanceAndFire(100)
		test.DemandEquality(t, len(fired), 4)
		test.ExpectEquality(t, fired[0], scheduler.VideoInterrupt)
		test.ExpectEquality(t, fired[1], scheduler.AudioInterrupt)
		test.ExpectEquality(t, fired[2], scheduler.CompareTimer)
		test.ExpectEquality(t, fired[3], scheduler.PeripheralInterrupt)

		// next cycle with any events is 125 for the audio event
		next, _ := r.sch.PeekNextDeadline()
		test.ExpectEquality(t, next, 125)

		// at 200: AI at 125, AI and COMPARE at 150, AI at 175 then VI, AI
		// and COMPARE all at 200
		fired = r.sch.AdvanceAndFire(200)
		var s strings.Builder
		for _, k := range fired {
			s.WriteString(k.String())
			s.WriteString(" ")
		}
		test.ExpectEquality(t, s.String(), "AI AI COMPARE AI VI AI COMPARE ")
	}
}

func TestOneShot(t *testing.T) {
	r := newRecorder()
	test.DemandSuccess(t, r.sch.ScheduleOnce(scheduler.SerialInterrupt, 10))

	test.ExpectEquality(t, len(r.sch.AdvanceAndFire(9)), 0)
	test.ExpectEquality(t, len(r.sch.AdvanceAndFire(10)), 1)
	test.ExpectEquality(t, len(r.sch.AdvanceAndFire(1000)), 0)
	test.ExpectEquality(t, r.sch.Len(), 0)

	_, ok := r.sch.Pending(scheduler.SerialInterrupt)
	test.ExpectFailure(t, ok)

	_, ok = r.sch.PeekNextDeadline()
	test.ExpectFailure(t, ok)

	// the kind can be scheduled again once it has fired
	test.ExpectSuccess(t, r.sch.ScheduleOnce(scheduler.SerialInterrupt, 20))
}

func TestZeroPeriod(t *testing.T) {
	r := newRecorder()

	err := r.sch.Schedule(scheduler.VideoInterrupt, 100, 0)
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))
	test.ExpectEquality(t, r.sch.Len(), 0)

	// a failed replacement leaves the existing event in place
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 10))
	err = r.sch.Replace(scheduler.VideoInterrupt, 100, 0)
	test.ExpectSuccess(t, errors.Is(err, faults.ConfigurationError))
	ev, ok := r.sch.Pending(scheduler.VideoInterrupt)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, ev.Period, 10)
}

func TestDuplicateKind(t *testing.T) {
	if assert.Enabled {
		t.Skip("invariant violations panic when assertions are enabled")
	}

	r := newRecorder()
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 100))

	err := r.sch.Schedule(scheduler.VideoInterrupt, 50, 10)
	test.ExpectSuccess(t, errors.Is(err, faults.InvariantViolation))

	err = r.sch.ScheduleOnce(scheduler.VideoInterrupt, 50)
	test.ExpectSuccess(t, errors.Is(err, faults.InvariantViolation))

	// pending set is unchanged
	test.ExpectEquality(t, r.sch.Len(), 1)
	ev, _ := r.sch.Pending(scheduler.VideoInterrupt)
	test.ExpectEquality(t, ev.Due, 100)
	test.ExpectEquality(t, ev.Period, 100)

	// unknown kind
	err = r.sch.Schedule(scheduler.NumKinds, 50, 10)
	test.ExpectSuccess(t, errors.Is(err, faults.InvariantViolation))
}

func TestDueBeforeLastFiring(t *testing.T) {
	if assert.Enabled {
		t.Skip("invariant violations panic when assertions are enabled")
	}

	r := newRecorder()
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 100))
	r.sch.AdvanceAndFire(150)

	// the new entry must be due after the last firing
	err := r.sch.Replace(scheduler.VideoInterrupt, 100, 100)
	test.ExpectSuccess(t, errors.Is(err, faults.InvariantViolation))
	test.ExpectSuccess(t, r.sch.Replace(scheduler.VideoInterrupt, 101, 100))
}

func TestReplace(t *testing.T) {
	r := newRecorder()
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 100))
	r.sch.AdvanceAndFire(250)
	test.ExpectEquality(t, len(r.firings), 2)

	// replace at "now" plus the new period
	test.DemandSuccess(t, r.sch.Replace(scheduler.VideoInterrupt, 250+60, 60))
	test.ExpectEquality(t, r.sch.Len(), 1)

	r.firings = r.firings[:0]
	r.sch.AdvanceAndFire(500)
	test.DemandEquality(t, len(r.firings), 4)
	test.ExpectEquality(t, r.firings[0].due, 310)
	test.ExpectEquality(t, r.firings[1].due, 370)
	test.ExpectEquality(t, r.firings[2].due, 430)
	test.ExpectEquality(t, r.firings[3].due, 490)

	// replacing a kind with no pending event is allowed
	test.ExpectSuccess(t, r.sch.Replace(scheduler.AudioInterrupt, 1000, 10))
}

func TestCancel(t *testing.T) {
	r := newRecorder()
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 100))
	test.DemandSuccess(t, r.sch.Schedule(scheduler.AudioInterrupt, 30, 30))
	test.DemandSuccess(t, r.sch.ScheduleOnce(scheduler.CompareTimer, 60))

	test.ExpectSuccess(t, r.sch.Cancel(scheduler.AudioInterrupt))
	test.ExpectFailure(t, r.sch.Cancel(scheduler.AudioInterrupt))
	test.ExpectFailure(t, r.sch.Cancel(scheduler.SerialInterrupt))
	test.ExpectEquality(t, r.sch.Len(), 2)

	next, ok := r.sch.PeekNextDeadline()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, next, 60)

	fired := r.sch.AdvanceAndFire(100)
	test.DemandEquality(t, len(fired), 2)
	test.ExpectEquality(t, fired[0], scheduler.CompareTimer)
	test.ExpectEquality(t, fired[1], scheduler.VideoInterrupt)
}

func TestOneEntryPerKind(t *testing.T) {
	r := newRecorder()
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 7, 7))
	test.DemandSuccess(t, r.sch.Schedule(scheduler.AudioInterrupt, 3, 3))
	test.DemandSuccess(t, r.sch.Schedule(scheduler.CompareTimer, 5, 5))

	for now := uint64(0); now < 1000; now += 13 {
		r.sch.AdvanceAndFire(now)
		test.ExpectEquality(t, r.sch.Len(), 3)

		for _, k := range []scheduler.Kind{scheduler.VideoInterrupt, scheduler.AudioInterrupt, scheduler.CompareTimer} {
			ev, ok := r.sch.Pending(k)
			test.ExpectSuccess(t, ok)
			if last, ok := r.sch.LastFired(k); ok {
				test.ExpectSuccess(t, ev.Due > last)
			}
			test.ExpectSuccess(t, ev.Due > now)
		}
	}
}

func TestReset(t *testing.T) {
	r := newRecorder()
	test.DemandSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 100))
	r.sch.AdvanceAndFire(100)
	r.sch.Reset()

	test.ExpectEquality(t, r.sch.Len(), 0)
	_, ok := r.sch.LastFired(scheduler.VideoInterrupt)
	test.ExpectFailure(t, ok)

	// after reset the event can be scheduled from cycle zero again
	test.ExpectSuccess(t, r.sch.Schedule(scheduler.VideoInterrupt, 100, 100))
}

func TestNilDispatcher(t *testing.T) {
	sch := scheduler.NewScheduler(nil, nil)
	test.DemandSuccess(t, sch.Schedule(scheduler.VideoInterrupt, 10, 10))
	test.ExpectEquality(t, len(sch.AdvanceAndFire(35)), 3)
}

func TestString(t *testing.T) {
	sch := scheduler.NewScheduler(logger.Allow, nil)
	sch.Label = "test"
	test.DemandSuccess(t, sch.Schedule(scheduler.AudioInterrupt, 10, 10))
	test.DemandSuccess(t, sch.ScheduleOnce(scheduler.VideoInterrupt, 10))
	test.ExpectEquality(t, sch.String(), "test: VI -> 10\ntest: AI -> 10 (every 10)\n")
}
