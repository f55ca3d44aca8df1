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

// Package digest computes a fingerprint of the events fired by a Machine.
// Two runs that fire the same events on the same cycles produce the same
// digest. Used to compare runs for regression testing and for checking that
// restoring a snapshot reproduces the original sequence of events.
//
// The digest is a chain of SHA-1 values. The value of the previous digest is
// included in the data for the next digest.
package digest
