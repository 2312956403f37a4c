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

package cluster

import "testing"

func TestIPFromPID(t *testing.T) {
	cases := []struct {
		pid  string
		want string
	}{
		{"slave(1)@10.0.0.5:5051", "10.0.0.5"},
		{"slave(42)@192.168.1.1:5051", "192.168.1.1"},
		{"garbage", ""},
		{"slave(1)@10.0.0.5", ""},
	}
	for _, tc := range cases {
		if got := ipFromPID(tc.pid); got != tc.want {
			t.Errorf("ipFromPID(%q) = %q, want %q", tc.pid, got, tc.want)
		}
	}
}
