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

// Package timing resolves a video standard and a timing override into a
// Profile: the concrete number of CPU cycles between video interrupts and the
// refresh rate that is reported to the rest of the emulation.
//
// Resolve() is a pure function. A Profile is never changed after it has been
// created; any change in configuration produces a new Profile.
//
// All periods are rounded, rather than truncated, to the nearest whole cycle.
// Halfway values are rounded to even.
package timing

import (
	"fmt"
	"math"

	"github.com/jetsetilly/vitimer/hardware/faults"
	"github.com/jetsetilly/vitimer/hardware/vi/specification"
)

// Profile is the resolved timing of the video interface.
type Profile struct {
	Spec     specification.Spec
	Override Override
	ClockHz  float64

	// number of CPU cycles between video interrupts
	VIPeriod uint64

	// the refresh rate reported to consumers. this is always the rate used to
	// calculate VIPeriod
	NominalRefreshHz float64
}

func (p Profile) String() string {
	return fmt.Sprintf("%s override=%s clock=%.0fHz vi=%d cycles (%.4fHz)",
		p.Spec.ID, p.Override, p.ClockHz, p.VIPeriod, p.NominalRefreshHz)
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// Period returns the number of cycles of a clock running at clockHz in one
// period of a signal at rateHz. The result is rounded half to even.
func Period(clockHz float64, rateHz float64) (uint64, error) {
	if !validRate(clockHz) {
		return 0, fmt.Errorf("timing: %w: clock frequency must be positive (%v)", faults.ConfigurationError, clockHz)
	}
	if !validRate(rateHz) {
		return 0, fmt.Errorf("timing: %w: rate must be positive (%v)", faults.ConfigurationError, rateHz)
	}

	p := math.RoundToEven(clockHz / rateHz)
	if p < 1 {
		return 0, fmt.Errorf("timing: %w: rate of %vHz is too fast for clock of %vHz", faults.ConfigurationError, rateHz, clockHz)
	}
	if p >= math.MaxUint64 {
		return 0, fmt.Errorf("timing: %w: rate of %vHz is too slow for clock of %vHz", faults.ConfigurationError, rateHz, clockHz)
	}

	return uint64(p), nil
}

// Resolve the timing profile for the video standard and override, for a CPU
// running at clockHz.
func Resolve(spec specification.Spec, override Override, clockHz float64) (Profile, error) {
	rate := spec.RefreshRate
	if r, ok := override.Rate(); ok {
		rate = r
	}

	period, err := Period(clockHz, rate)
	if err != nil {
		return Profile{}, fmt.Errorf("timing: %s: %w", spec.ID, err)
	}

	return Profile{
		Spec:             spec,
		Override:         override,
		ClockHz:          clockHz,
		VIPeriod:         period,
		NominalRefreshHz: rate,
	}, nil
}
