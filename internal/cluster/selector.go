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

import "sort"

// SortSlavesToKill orders candidate slaves for termination (component D):
// ascending by chronos_count, then by total task count, stable with respect
// to input order. Slaves carrying the fewest batch jobs are killed first;
// among slaves with equal chronos_count, the lightest-loaded come first.
// Returns a fresh slice; a nil or empty input yields an empty slice.
func SortSlavesToKill(slaves []Slave) []Slave {
	sorted := make([]Slave, len(slaves))
	copy(sorted, slaves)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].TaskCounts, sorted[j].TaskCounts
		if a.ChronosCount != b.ChronosCount {
			return a.ChronosCount < b.ChronosCount
		}
		return a.Total < b.Total
	})
	return sorted
}
