// This file is part of Traceboy.
//
// Traceboy is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Traceboy is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Traceboy.  If not, see <https://www.gnu.org/licenses/>.

// Package paths contains functions to prepare paths to Traceboy resources.
//
// The ResourcePath() function joins the supplied sub-path and filename to the
// base resource path, creating the sub-path directories as required. For
// example, the following returns the path to the collector database:
//
//	pth, err := paths.ResourcePath("", "collector.db")
//
// The policy of ResourcePath() is simple: if the base resource directory,
// ".traceboy", is present in the program's current directory then that is the
// base path. If it is not present then the user's config directory is used, as
// reported by os.UserConfigDir(). On a modern Linux system:
//
//	/home/user/.config/traceboy/collector.db
package paths
