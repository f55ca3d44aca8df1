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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a failed test with t.Errorf() and allow the
// test to continue. The Demand*() functions use t.Fatalf() and should be used
// when the value being tested is needed for subsequent tests.
//
// The success and failure tests interpret their argument according to its
// type:
//
//	bool -> true is success
//	error -> nil is success
//	nil -> success
//
// The RingWriter type implements io.Writer and is useful for capturing the
// most recent output of a component.
package test
