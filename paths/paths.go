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

package paths

import (
	"os"
	"path/filepath"
)

const localResourceDir = ".traceboy"
const configResourceDir = "traceboy"

// ResourcePath returns the resource string (representing the resource to be
// loaded) prepended with the base resource path. Directories in subPth are
// created if they do not already exist.
//
// Both arguments can be empty.
func ResourcePath(subPth string, file string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}

	pth := filepath.Join(base, subPth)
	if err := os.MkdirAll(pth, 0700); err != nil {
		return "", err
	}

	return filepath.Join(pth, file), nil
}

func basePath() (string, error) {
	if info, err := os.Stat(localResourceDir); err == nil && info.IsDir() {
		return localResourceDir, nil
	}

	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(cfg, configResourceDir), nil
}
