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
	"context"
	"strings"
)

// LoggableFunc decides whether a completed exchange should produce an entry.
// It is called exactly once per exchange, synchronously, before any record is
// built. Returning false skips the entry; returning an error skips it and
// surfaces the error from [Emitter.OnComplete]. Implementations must not
// block.
type LoggableFunc func(ctx context.Context, ex *RawExchange) (bool, error)

// AlwaysLoggable is the default predicate. It accepts every exchange.
func AlwaysLoggable(context.Context, *RawExchange) (bool, error) {
	return true, nil
}

// SkipPaths returns a predicate that rejects exchanges whose path equals one
// of paths. The query string is ignored.
func SkipPaths(paths ...string) LoggableFunc {
	skip := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		skip[p] = struct{}{}
	}
	return func(_ context.Context, ex *RawExchange) (bool, error) {
		_, hit := skip[exchangePath(ex)]
		return !hit, nil
	}
}

// SkipPathSubstrings returns a predicate that rejects exchanges whose path
// contains any of substrings.
func SkipPathSubstrings(substrings ...string) LoggableFunc {
	cleaned := make([]string, 0, len(substrings))
	for _, value := range substrings {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		cleaned = append(cleaned, value)
	}
	return func(_ context.Context, ex *RawExchange) (bool, error) {
		path := exchangePath(ex)
		for _, sub := range cleaned {
			if strings.Contains(path, sub) {
				return false, nil
			}
		}
		return true, nil
	}
}

// exchangePath returns the path portion of the exchange target.
func exchangePath(ex *RawExchange) string {
	if ex == nil {
		return ""
	}
	if ex.Path != "" {
		return ex.Path
	}
	target := ex.URL
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	return target
}
