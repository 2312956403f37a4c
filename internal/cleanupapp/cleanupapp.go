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

// Package cleanupapp is the cleanup-orphaned-apps tool's sole piece of
// logic: a set difference between what's running and what's desired.
// Everything else about that tool (listing the two sides, acting on the
// result) is out of scope (spec.md §4.N).
package cleanupapp

// Orphaned returns the entries in running that do not appear in desired,
// in the order they appear in running.
func Orphaned(running, desired []string) []string {
	want := make(map[string]bool, len(desired))
	for _, d := range desired {
		want[d] = true
	}

	var orphaned []string
	for _, r := range running {
		if !want[r] {
			orphaned = append(orphaned, r)
		}
	}
	return orphaned
}
