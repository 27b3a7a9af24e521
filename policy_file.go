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
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Policies groups the request and response header policies.
type Policies struct {
	Request  HeaderPolicy
	Response HeaderPolicy
}

type policyDocument struct {
	Request  *policyLists `json:"request,omitempty"`
	Response *policyLists `json:"response,omitempty"`
}

type policyLists struct {
	Whitelist []string `json:"whitelist,omitempty"`
	Blacklist []string `json:"blacklist,omitempty"`
}

// policy converts the lists into a normalised HeaderPolicy.
func (l *policyLists) policy() HeaderPolicy {
	if l == nil {
		return HeaderPolicy{}
	}
	return NewHeaderPolicy(l.Whitelist, l.Blacklist)
}

// ParsePolicies decodes a YAML (or JSON) policy document of the form
//
//	request:
//	  whitelist: [host, accept]
//	  blacklist: [authorization]
//	response:
//	  blacklist: [set-cookie]
//
// Unknown keys are rejected so that a typo cannot silently disable a deny
// list.
func ParsePolicies(data []byte) (Policies, error) {
	var doc policyDocument
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return Policies{}, fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}
	return Policies{
		Request:  doc.Request.policy(),
		Response: doc.Response.policy(),
	}, nil
}

// LoadPolicyFile reads and parses the policy document at path.
func LoadPolicyFile(path string) (Policies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policies{}, fmt.Errorf("read policy file %q: %w", path, err)
	}
	policies, err := ParsePolicies(data)
	if err != nil {
		return Policies{}, fmt.Errorf("parse policy file %q: %w", path, err)
	}
	return policies, nil
}
