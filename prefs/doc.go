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

// Package prefs facilitates the storage of preferential values in the
// vitimer system. It is the basis of the hardware/preferences package.
//
// Preference values are one of the types in this package: Bool, String, Int or
// Float. Each value can be added to a Disk instance under a key, and the Disk
// instance then handles loading and saving of the values.
//
//	var spec prefs.String
//	dsk.Add("vi.spec", &spec)
//
// Values can be set with a string representation or with a value of the
// underlying type. Hooks can be registered to be called before and after the
// value is changed. An error from the pre-hook prevents the change.
//
// Values are safe to read and write from more than one goroutine.
//
// The command line preference stack allows preferences to be given for the
// duration of a single session. Values in the top group of the stack take
// precedence over values loaded from disk. See PushCommandLineStack().
package prefs
