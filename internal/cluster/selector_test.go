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

func TestSortSlavesToKill(t *testing.T) {
	slave1 := Slave{ID: "slave1", TaskCounts: TaskCounts{Total: 3, ChronosCount: 0}}
	slave2 := Slave{ID: "slave2", TaskCounts: TaskCounts{Total: 2, ChronosCount: 1}}
	slave3 := Slave{ID: "slave3", TaskCounts: TaskCounts{Total: 5, ChronosCount: 0}}

	got := SortSlavesToKill([]Slave{slave1, slave2, slave3})

	want := []string{"slave1", "slave3", "slave2"}
	if len(got) != len(want) {
		t.Fatalf("got %d slaves, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %q, want %q (order: %v)", i, got[i].ID, id, idsOf(got))
		}
	}
}

func TestSortSlavesToKillEmpty(t *testing.T) {
	if got := SortSlavesToKill(nil); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}

func TestSortSlavesToKillDoesNotMutateInput(t *testing.T) {
	in := []Slave{
		{ID: "a", TaskCounts: TaskCounts{Total: 9, ChronosCount: 1}},
		{ID: "b", TaskCounts: TaskCounts{Total: 1, ChronosCount: 0}},
	}
	_ = SortSlavesToKill(in)
	if in[0].ID != "a" || in[1].ID != "b" {
		t.Fatalf("input slice was mutated: %v", idsOf(in))
	}
}

func idsOf(slaves []Slave) []string {
	ids := make([]string, len(slaves))
	for i, s := range slaves {
		ids[i] = s.ID
	}
	return ids
}
