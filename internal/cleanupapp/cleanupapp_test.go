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

package cleanupapp

import (
	"reflect"
	"testing"
)

func TestOrphaned(t *testing.T) {
	cases := []struct {
		name             string
		running, desired []string
		want             []string
	}{
		{"no overlap", []string{"a", "b"}, nil, []string{"a", "b"}},
		{"full overlap", []string{"a", "b"}, []string{"a", "b"}, nil},
		{"partial overlap", []string{"a", "b", "c"}, []string{"b"}, []string{"a", "c"}},
		{"nothing running", nil, []string{"a"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Orphaned(tc.running, tc.desired)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Orphaned(%v, %v) = %v, want %v", tc.running, tc.desired, got, tc.want)
			}
		})
	}
}
