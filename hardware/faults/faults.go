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

// Package faults defines the sentinel errors for the emulated hardware.
// Errors returned by the hardware packages wrap one of these values and should
// be tested with errors.Is().
package faults

import "errors"

// ConfigurationError is wrapped by any error caused by an invalid clock
// frequency, refresh rate or interrupt period. These errors are always
// reported when the value is supplied and are never corrected silently.
var ConfigurationError = errors.New("configuration error")

// InvariantViolation is wrapped by errors that indicate a programming error in
// the calling component. For example, scheduling a second event of the same
// kind without explicitly replacing the first.
var InvariantViolation = errors.New("invariant violation")
