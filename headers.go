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
	"net/http"
	"strings"
)

// Headers is the flattened header view carried by loggable records. Keys are
// lower-case header names; repeated header values are joined with ", ".
type Headers map[string]string

// Get returns the value stored under name. No case folding is applied.
func (h Headers) Get(name string) string {
	if h == nil {
		return ""
	}
	return h[name]
}

// Clone returns an independent copy of h. A nil map clones to an empty map so
// callers can always write to the result.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// HeadersFromHTTP flattens an http.Header into a Headers view with lower-case
// keys. The source header is never modified.
func HeadersFromHTTP(src http.Header) Headers {
	out := make(Headers, len(src))
	for key, values := range src {
		if len(values) == 0 {
			continue
		}
		name := strings.ToLower(key)
		joined := strings.Join(values, ", ")
		if prev, ok := out[name]; ok {
			// Non-canonical keys in the source map can collide once folded.
			joined = prev + ", " + joined
		}
		out[name] = joined
	}
	return out
}

// FilterHeaders applies an allow/deny policy to h and returns a new map.
//
// A non-empty allow list keeps only the listed keys. The deny list is applied
// afterwards and removes its keys from whatever survived, so a name present in
// both lists is excluded. With neither list the result equals h. Keys are
// matched exactly as stored; callers are expected to normalise case upstream.
// Names that are not present in h are ignored.
func FilterHeaders(h Headers, allow, deny []string) Headers {
	var out Headers
	if len(allow) > 0 {
		out = make(Headers, len(allow))
		for _, name := range allow {
			if v, ok := h[name]; ok {
				out[name] = v
			}
		}
	} else {
		out = h.Clone()
	}
	for _, name := range deny {
		delete(out, name)
	}
	return out
}

// HeaderPolicy is an immutable allow/deny configuration for one header set.
// The zero value lets every header through.
type HeaderPolicy struct {
	allow []string
	deny  []string
}

// NewHeaderPolicy builds a policy from allow and deny lists. Names are
// trimmed, lower-cased and deduplicated so they line up with the keys produced
// by [HeadersFromHTTP]. Blank names are dropped.
func NewHeaderPolicy(allow, deny []string) HeaderPolicy {
	return HeaderPolicy{
		allow: cleanHeaderNames(allow),
		deny:  cleanHeaderNames(deny),
	}
}

// Allow returns a copy of the normalised allow list.
func (p HeaderPolicy) Allow() []string { return append([]string(nil), p.allow...) }

// Deny returns a copy of the normalised deny list.
func (p HeaderPolicy) Deny() []string { return append([]string(nil), p.deny...) }

// IsZero reports whether the policy has neither an allow nor a deny list.
func (p HeaderPolicy) IsZero() bool {
	return len(p.allow) == 0 && len(p.deny) == 0
}

// Apply filters h through the policy. See [FilterHeaders].
func (p HeaderPolicy) Apply(h Headers) Headers {
	return FilterHeaders(h, p.allow, p.deny)
}

// Permits reports whether a header named name would survive the policy.
func (p HeaderPolicy) Permits(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range p.deny {
		if d == name {
			return false
		}
	}
	if len(p.allow) == 0 {
		return true
	}
	for _, a := range p.allow {
		if a == name {
			return true
		}
	}
	return false
}

// withAllow returns a copy of p with its allow list replaced.
func (p HeaderPolicy) withAllow(names []string) HeaderPolicy {
	p.allow = cleanHeaderNames(names)
	return p
}

// withDeny returns a copy of p with its deny list replaced.
func (p HeaderPolicy) withDeny(names []string) HeaderPolicy {
	p.deny = cleanHeaderNames(names)
	return p
}

// cleanHeaderNames lower-cases, trims and deduplicates header names while
// keeping their first-seen order.
func cleanHeaderNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	cleaned := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return nil
	}
	return cleaned
}

// splitAndClean normalises comma-separated configuration strings into a slice
// of trimmed, non-empty values.
func splitAndClean(input string) []string {
	parts := strings.Split(input, ",")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cleaned = append(cleaned, part)
	}
	return cleaned
}
