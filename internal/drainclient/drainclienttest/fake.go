/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package drainclienttest provides an in-memory fake of drainclient.Client
// for use in tests.
package drainclienttest

import (
	"context"

	"github.com/pilgrim2go/paasta/internal/drainclient"
)

// Call records one invocation against the fake, in order.
type Call struct {
	Method        string // "drain", "undrain", "is_safe_to_kill"
	Hosts         []string
	Hostname      string
	StartNanos    int64
	DurationNanos int64
}

// Fake is an in-memory drainclient.Client. The zero value is ready to use.
type Fake struct {
	Calls []Call

	DrainErr    error
	UndrainErr  error
	SafeToKill  bool
	SafeErr     error
}

var _ drainclient.Client = (*Fake)(nil)

func (f *Fake) Drain(_ context.Context, hosts []string, startNanos, durationNanos int64) error {
	f.Calls = append(f.Calls, Call{Method: "drain", Hosts: hosts, StartNanos: startNanos, DurationNanos: durationNanos})
	return f.DrainErr
}

func (f *Fake) Undrain(_ context.Context, hosts []string) error {
	f.Calls = append(f.Calls, Call{Method: "undrain", Hosts: hosts})
	return f.UndrainErr
}

func (f *Fake) IsSafeToKill(_ context.Context, hostname string) (bool, error) {
	f.Calls = append(f.Calls, Call{Method: "is_safe_to_kill", Hostname: hostname})
	if f.SafeErr != nil {
		return false, f.SafeErr
	}
	return f.SafeToKill, nil
}
