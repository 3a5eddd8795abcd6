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

package cartridgeloader

import (
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jetsetilly/traceboy/curated"
	"github.com/jetsetilly/traceboy/trace"
)

// Sentinal error patterns.
const (
	LoaderError    = "cartridgeloader: %v"
	NoDataError    = "cartridgeloader: no data: %v"
	HashMismatch   = "cartridgeloader: unexpected hash value"
	maxProgramSize = 1 << 24
)

// Loader is used to specify the program to load into the machine.
type Loader struct {
	// filename of program to load. a local path or a http(s) URL
	Filename string

	// expected hash of the loaded program. empty string indicates that the
	// hash is unknown and need not be validated. after a load operation the
	// value will be the hash of the loaded data
	Hash string

	// CRC-32 of the loaded data. the identity of the program as far as the
	// trace system is concerned
	Fingerprint uint32

	// copy of the loaded data
	Data []byte
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(filename string) Loader {
	return Loader{
		Filename: strings.TrimSpace(filename),
	}
}

// NewLoaderFromData is like NewLoader() but the data is supplied rather than
// being loaded from a file. The returned Loader has been loaded. The name is
// used for the Filename field.
func NewLoaderFromData(name string, data []byte) (Loader, error) {
	if len(data) == 0 {
		return Loader{}, curated.Errorf(NoDataError, name)
	}
	cl := Loader{
		Filename:    name,
		Hash:        fmt.Sprintf("%x", sha1.Sum(data)),
		Fingerprint: trace.Checksum(data),
		Data:        data,
	}
	return cl, nil
}

// ShortName returns a shortened version of the Loader filename.
func (cl Loader) ShortName() string {
	shortName := path.Base(cl.Filename)
	shortName = strings.TrimSuffix(shortName, path.Ext(cl.Filename))
	return shortName
}

// IsLocal returns true if the filename refers to a local file.
func (cl Loader) IsLocal() bool {
	switch scheme(cl.Filename) {
	case "", "file":
		return true
	}
	return false
}

// LocalPath returns the path of the file on the local filesystem. The empty
// string if the filename is not local.
func (cl Loader) LocalPath() string {
	if !cl.IsLocal() {
		return ""
	}
	p := strings.TrimPrefix(cl.Filename, "file://")
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return p
}

// HasLoaded returns true if Load() has been successfully called.
func (cl Loader) HasLoaded() bool {
	return len(cl.Data) > 0
}

func scheme(filename string) string {
	u, err := url.Parse(filename)
	if err != nil {
		return ""
	}

	// single letter schemes are windows drive letters
	if len(u.Scheme) == 1 {
		return ""
	}

	return u.Scheme
}

// Load the program data. Loader filenames with a valid scheme will use that
// method to load the data. Currently supported schemes are HTTP and local
// files.
//
// Calling Load() on a loader that has already been loaded has no effect. Use
// Reload() to load the data again.
func (cl *Loader) Load() error {
	if len(cl.Data) > 0 {
		return nil
	}

	var data []byte
	var err error

	switch s := scheme(cl.Filename); s {
	case "http", "https":
		var resp *http.Response
		resp, err = http.Get(cl.Filename)
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return curated.Errorf(LoaderError, fmt.Sprintf("%s: %s", cl.Filename, resp.Status))
		}

		data, err = io.ReadAll(io.LimitReader(resp.Body, maxProgramSize+1))
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}

	case "file", "":
		data, err = os.ReadFile(strings.TrimPrefix(cl.Filename, "file://"))
		if err != nil {
			return curated.Errorf(LoaderError, err)
		}

	default:
		return curated.Errorf(LoaderError, fmt.Sprintf("unsupported URL scheme (%s)", s))
	}

	if len(data) == 0 {
		return curated.Errorf(NoDataError, fmt.Sprintf("%s is empty", cl.Filename))
	}
	if len(data) > maxProgramSize {
		return curated.Errorf(LoaderError, fmt.Sprintf("%s is too large", cl.Filename))
	}

	hash := fmt.Sprintf("%x", sha1.Sum(data))

	// check for hash consistency
	if cl.Hash != "" && cl.Hash != hash {
		return curated.Errorf(HashMismatch)
	}

	cl.Data = data
	cl.Hash = hash
	cl.Fingerprint = trace.Checksum(data)

	return nil
}

// Reload discards any previously loaded data and loads it again. The expected
// hash is also forgotten because the file has presumably changed.
func (cl *Loader) Reload() error {
	cl.Data = nil
	cl.Hash = ""
	cl.Fingerprint = 0
	return cl.Load()
}
