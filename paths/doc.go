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

// Package paths contains functions to prepare paths to vitimer resources.
//
// The ResourcePath() function prepends the supplied resource with the
// appropriate config directory. For example, the path to the preferences file
// is found with:
//
//	pth, err := paths.ResourcePath("", "preferences")
//
// In development builds the base path is ".vitimer" in the program's current
// directory. In release builds (built with the "release" tag) the base path is
// the "vitimer" directory in the user's config directory, as reported by
// os.UserConfigDir().
//
// The resource directory is created if it does not exist.
package paths
