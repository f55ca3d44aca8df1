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

// Package limiter paces an emulation to real time. The emulation itself has
// no notion of real time: the Limiter is told about every completed frame
// with CheckFrame() and blocks for as long as necessary to keep the frame rate
// at the refresh rate.
//
// The refresh rate should be the value reported by
// hardware.Machine.NominalRefreshHz() and must be updated whenever the machine
// is reconfigured.
package limiter

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// Limiter paces the emulation to a refresh rate.
type Limiter struct {
	// whether to wait for the pulse on each frame
	Active bool

	refreshRate float64

	// pulse that performs the limiting. the duration of the ticker is set when
	// SetRefreshRate() is called
	pulse *time.Ticker

	// the pulse is checked every pulseCtLimit frames rather than every frame.
	// a ticker with a very short duration is unreliable
	pulseCt      int
	pulseCtLimit int

	// pulse that performs the FPS measurement
	measuringPulse *time.Ticker

	// the measured FPS is the number of frames divided by the amount of
	// elapsed time since the previous measurement
	measureTime time.Time
	measureCt   int

	// float64 bits. read from any goroutine with Measured()
	measured atomic.Uint64

	// nudge the limiter so that it doesn't wait for the specified number of
	// frames
	Nudge atomic.Int32
}

// NewLimiter is the preferred method of initialising a new instance of the
// Limiter type.
func NewLimiter(refreshRate float64) (*Limiter, error) {
	lmtr := &Limiter{
		Active:         true,
		pulse:          time.NewTicker(time.Second),
		measuringPulse: time.NewTicker(time.Second),
	}
	if err := lmtr.SetRefreshRate(refreshRate); err != nil {
		lmtr.Stop()
		return nil, err
	}
	return lmtr, nil
}

func (lmtr *Limiter) String() string {
	return fmt.Sprintf("%.4fHz (measured %.2f)", lmtr.refreshRate, lmtr.Measured())
}

// SetRefreshRate changes the rate at which frames are allowed to complete.
func (lmtr *Limiter) SetRefreshRate(refreshRate float64) error {
	if refreshRate <= 0 || math.IsInf(refreshRate, 0) || math.IsNaN(refreshRate) {
		return fmt.Errorf("limiter: refresh rate must be positive (%v)", refreshRate)
	}

	lmtr.refreshRate = refreshRate

	lmtr.pulseCt = 0
	lmtr.pulseCtLimit = 1 + int(refreshRate/20)
	lmtr.pulse.Reset(time.Duration(float64(time.Second) / refreshRate * float64(lmtr.pulseCtLimit)))

	// restart measurement
	lmtr.measuringPulse.Reset(time.Second)
	lmtr.measureCt = 0
	lmtr.measureTime = time.Now()

	return nil
}

// RefreshRate returns the current refresh rate of the limiter.
func (lmtr *Limiter) RefreshRate() float64 {
	return lmtr.refreshRate
}

// CheckFrame should be called every frame. Suitable for use as the frame
// callback of the interrupt dispatcher.
func (lmtr *Limiter) CheckFrame() {
	lmtr.measureCt++

	nudge := lmtr.Nudge.Load()
	if nudge > 0 {
		lmtr.Nudge.Store(nudge - 1)
		return
	}

	if lmtr.Active {
		lmtr.pulseCt++
		if lmtr.pulseCt >= lmtr.pulseCtLimit {
			lmtr.pulseCt = 0
			<-lmtr.pulse.C
		}
	}
}

// MeasureActual measures the frame rate on every tick of the measuring
// pulse. Callers should be mindful of how often the function is called.
// Checking the pulse channel is itself expensive.
func (lmtr *Limiter) MeasureActual() {
	select {
	case <-lmtr.measuringPulse.C:
		t := time.Now()
		m := float64(lmtr.measureCt) / t.Sub(lmtr.measureTime).Seconds()
		lmtr.measured.Store(math.Float64bits(m))

		lmtr.measureTime = t
		lmtr.measureCt = 0
	default:
	}
}

// Measured returns the most recent measurement of the frame rate. Safe to
// call from any goroutine.
func (lmtr *Limiter) Measured() float64 {
	return math.Float64frombits(lmtr.measured.Load())
}

// Stop the limiter's tickers. The limiter should not be used after Stop().
func (lmtr *Limiter) Stop() {
	lmtr.pulse.Stop()
	lmtr.measuringPulse.Stop()
}
