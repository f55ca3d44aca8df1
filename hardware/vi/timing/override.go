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

package timing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/vitimer/hardware/faults"
)

// Override represents a configuration choice to bypass the native refresh
// rate of the video standard. The zero value is NoOverride.
type Override struct {
	rate float64
}

// NoOverride indicates that the native rate of the standard should be used.
var NoOverride = Override{}

// ForceUniformRate returns an Override that causes the video interrupt to
// fire at rateHz regardless of the video standard. ForceUniformRate(60) is
// the "60 FPS" mode.
func ForceUniformRate(rateHz float64) Override {
	return Override{rate: rateHz}
}

// Rate returns the forced rate and true, or zero and false for NoOverride.
func (o Override) Rate() (float64, bool) {
	return o.rate, o != NoOverride
}

func (o Override) String() string {
	if o == NoOverride {
		return "none"
	}
	return strconv.FormatFloat(o.rate, 'f', -1, 64)
}

// ParseOverride converts a configuration string to an Override. The empty
// string and "none" are NoOverride. Otherwise the string should be a rate in
// Hz, optionally followed by "fps" or "hz". For example "60", "60fps", "50Hz".
func ParseOverride(s string) (Override, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "native":
		return NoOverride, nil
	}

	s = strings.TrimSuffix(s, "fps")
	s = strings.TrimSuffix(s, "hz")

	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return NoOverride, fmt.Errorf("timing: %w: unrecognised override (%s)", faults.ConfigurationError, s)
	}

	// a forced rate of zero would be indistinguishable from NoOverride so it
	// must be reported here
	if !validRate(r) {
		return NoOverride, fmt.Errorf("timing: %w: override rate must be positive (%v)", faults.ConfigurationError, r)
	}

	return ForceUniformRate(r), nil
}
