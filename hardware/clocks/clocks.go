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

// Package clocks defines the frequencies of the clocks in the emulated
// console and the Counter type, the virtual cycle clock that is the only time
// base for scheduled hardware events.
//
// Values taken from the N64 hardware reference:
//
//	CPU (VR4300)	93.75 MHz
//	RCP		62.50 MHz
//
// The COUNT register of the CPU increments at half the CPU frequency.
package clocks

const (
	R4300 = 93750000.0
	RCP   = 62500000.0
)

// CountDivider is the number of CPU cycles for every tick of the COUNT
// register.
const CountDivider = 2
