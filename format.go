// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slogaccess

import (
	"strconv"
	"strings"
)

// hostHeader is the request header the summary line reads its host from.
const hostHeader = "host"

// FormatLine builds the one-line summary "<METHOD> <host><url> <status>".
//
// host is supplied by the caller. [Emitter] reads it from the unfiltered
// request headers so the summary stays stable whatever the header policy.
func FormatLine(req LoggableRequest, res LoggableResponse, host string) string {
	var b strings.Builder
	b.Grow(len(req.Method) + len(host) + len(req.URL) + 5)
	b.WriteString(req.Method)
	b.WriteByte(' ')
	b.WriteString(host)
	b.WriteString(req.URL)
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(res.StatusCode))
	return b.String()
}
