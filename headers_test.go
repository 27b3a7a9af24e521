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

package slogaccess_test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pjscruggs/slogaccess"
)

// scenarioRequestHeaders mirrors the request used throughout the README
// scenarios.
func scenarioRequestHeaders() slogaccess.Headers {
	return slogaccess.Headers{
		"host":            "example.com",
		"x-foo":           "bar",
		"accept":          "text/plain",
		"accept-language": "es-ES",
	}
}

// TestFilterHeaders covers whitelist, blacklist and identity behaviour.
func TestFilterHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		allow []string
		deny  []string
		want  slogaccess.Headers
	}{
		{
			name: "no policy is identity",
			want: scenarioRequestHeaders(),
		},
		{
			name:  "whitelist keeps only listed names",
			allow: []string{"host", "accept", "accept-language"},
			want: slogaccess.Headers{
				"host":            "example.com",
				"accept":          "text/plain",
				"accept-language": "es-ES",
			},
		},
		{
			name: "blacklist removes listed names",
			deny: []string{"accept", "accept-language"},
			want: slogaccess.Headers{
				"host":  "example.com",
				"x-foo": "bar",
			},
		},
		{
			name:  "blacklist wins over whitelist",
			allow: []string{"host", "accept"},
			deny:  []string{"accept"},
			want:  slogaccess.Headers{"host": "example.com"},
		},
		{
			name:  "missing names are ignored",
			allow: []string{"host", "x-missing"},
			deny:  []string{"x-also-missing"},
			want:  slogaccess.Headers{"host": "example.com"},
		},
		{
			name:  "matching is case sensitive",
			allow: []string{"Host"},
			want:  slogaccess.Headers{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := slogaccess.FilterHeaders(scenarioRequestHeaders(), tc.allow, tc.deny)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("FilterHeaders() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestFilterHeadersInvariants checks every allow/deny combination drawn from a
// small universe of names: the result never holds a name outside a non-empty
// allow list, never holds a denied name, and otherwise keeps values intact.
func TestFilterHeadersInvariants(t *testing.T) {
	t.Parallel()

	universe := []string{"host", "x-foo", "accept", "accept-language", "x-absent"}
	input := scenarioRequestHeaders()

	subset := func(mask int) []string {
		var out []string
		for i, name := range universe {
			if mask&(1<<i) != 0 {
				out = append(out, name)
			}
		}
		return out
	}

	for a := 0; a < 1<<len(universe); a++ {
		for d := 0; d < 1<<len(universe); d++ {
			allow, deny := subset(a), subset(d)
			got := slogaccess.FilterHeaders(input, allow, deny)

			inAllow := make(map[string]bool, len(allow))
			for _, name := range allow {
				inAllow[name] = true
			}
			inDeny := make(map[string]bool, len(deny))
			for _, name := range deny {
				inDeny[name] = true
			}

			for key, value := range got {
				if len(allow) > 0 && !inAllow[key] {
					t.Fatalf("allow=%v deny=%v: %q not in allow list", allow, deny, key)
				}
				if inDeny[key] {
					t.Fatalf("allow=%v deny=%v: denied %q survived", allow, deny, key)
				}
				if value != input[key] {
					t.Fatalf("allow=%v deny=%v: %q = %q, want %q", allow, deny, key, value, input[key])
				}
			}
			for key := range input {
				want := !inDeny[key] && (len(allow) == 0 || inAllow[key])
				if _, ok := got[key]; ok != want {
					t.Fatalf("allow=%v deny=%v: presence of %q = %v, want %v", allow, deny, key, ok, want)
				}
			}
		}
	}
}

// TestFilterHeadersDoesNotAliasInput ensures the result can be modified
// without touching the caller's map.
func TestFilterHeadersDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	input := scenarioRequestHeaders()
	got := slogaccess.FilterHeaders(input, nil, nil)
	got["x-foo"] = "changed"
	delete(got, "host")

	if diff := cmp.Diff(scenarioRequestHeaders(), input); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}

	if got := slogaccess.FilterHeaders(nil, nil, []string{"host"}); got == nil || len(got) != 0 {
		t.Fatalf("FilterHeaders(nil) = %#v, want empty non-nil map", got)
	}
}

// TestNewHeaderPolicyNormalizesNames verifies policy names are lower-cased,
// trimmed and deduplicated.
func TestNewHeaderPolicyNormalizesNames(t *testing.T) {
	t.Parallel()

	p := slogaccess.NewHeaderPolicy(
		[]string{" Host ", "ACCEPT", "", "host"},
		[]string{"Authorization", "  "},
	)
	if diff := cmp.Diff([]string{"host", "accept"}, p.Allow()); diff != "" {
		t.Fatalf("Allow() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"authorization"}, p.Deny()); diff != "" {
		t.Fatalf("Deny() mismatch (-want +got):\n%s", diff)
	}
	if p.IsZero() {
		t.Fatalf("IsZero() = true for populated policy")
	}
	if !(slogaccess.HeaderPolicy{}).IsZero() {
		t.Fatalf("zero HeaderPolicy reports IsZero() = false")
	}
	if !slogaccess.NewHeaderPolicy([]string{" "}, nil).IsZero() {
		t.Fatalf("policy with only blank names should be zero")
	}
}

// TestHeaderPolicyPermits checks single-name decisions follow the same
// precedence as Apply.
func TestHeaderPolicyPermits(t *testing.T) {
	t.Parallel()

	p := slogaccess.NewHeaderPolicy([]string{"host", "accept"}, []string{"accept"})
	cases := map[string]bool{
		"host":   true,
		"Host":   true,
		"accept": false,
		"x-foo":  false,
	}
	for name, want := range cases {
		if got := p.Permits(name); got != want {
			t.Errorf("Permits(%q) = %v, want %v", name, got, want)
		}
	}

	open := slogaccess.NewHeaderPolicy(nil, []string{"cookie"})
	if !open.Permits("x-anything") {
		t.Errorf("deny-only policy should permit unlisted names")
	}
	if open.Permits("Cookie") {
		t.Errorf("deny-only policy should reject cookie")
	}
}

// TestHeadersFromHTTP verifies flattening lower-cases names and joins values.
func TestHeadersFromHTTP(t *testing.T) {
	t.Parallel()

	src := http.Header{}
	src.Set("Host", "example.com")
	src.Add("Accept", "text/plain")
	src.Add("Accept", "text/html")
	src["x-raw"] = []string{"one"}
	src["X-Raw"] = []string{"two"}
	src["X-Empty"] = nil

	got := slogaccess.HeadersFromHTTP(src)

	if got["host"] != "example.com" {
		t.Errorf("host = %q", got["host"])
	}
	if got["accept"] != "text/plain, text/html" {
		t.Errorf("accept = %q", got["accept"])
	}
	if v := got["x-raw"]; v != "one, two" && v != "two, one" {
		t.Errorf("x-raw = %q, want both values joined", v)
	}
	if _, ok := got["x-empty"]; ok {
		t.Errorf("headers without values should be dropped")
	}
	if src.Get("Host") != "example.com" || len(src["Accept"]) != 2 {
		t.Errorf("source header mutated: %#v", src)
	}
}
