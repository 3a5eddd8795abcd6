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

package statsview

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/jetsetilly/traceboy/logger"
)

// Address of the statsview server.
const Address = "localhost:12600"

const url = "/debug/statsview"

var launched sync.Once

// Launch the statsview server in a new goroutine. The location of the
// statistics is written to output. The server is only launched once per
// process and runs until the process ends.
func Launch(output io.Writer) {
	launched.Do(func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		go func() {
			if err := mgr.Start(); err != nil {
				logger.Logf(logger.Allow, "statsview", "%v", err)
			}
		}()
		fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
	})
}
