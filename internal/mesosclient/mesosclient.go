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

// Package mesosclient is the typed boundary onto Mesos master state: the
// registered slave list for a pool and the per-slave task counts, consumed
// as an opaque query by the Cluster View (component B).
package mesosclient

import "context"

// Slave is the subset of Mesos master-state the cluster view needs about a
// registered slave, before it is joined against fleet instances.
type Slave struct {
	ID       string
	Hostname string
	PID      string
	Pool     string
}

// TaskCounts summarizes the tasks Mesos has scheduled onto one slave.
type TaskCounts struct {
	Total        int
	ChronosCount int
}

// Quantities is a snapshot of one resource dimension group reported by
// Mesos's resource-utilization-by-grouping query.
type Quantities struct {
	CPUs float64
	Mem  float64
	Disk float64
}

// Client queries Mesos master state. Implementations are expected to talk
// to the master's state-summary and quorum endpoints; the HTTP specifics
// are out of scope for this engine (spec.md's "discovery of the Mesos
// master state" collaborator).
type Client interface {
	// Slaves returns the registered slaves belonging to pool.
	Slaves(ctx context.Context, pool string) ([]Slave, error)
	// TaskCounts returns the current task-count view for the given slave
	// IDs, keyed by slave ID.
	TaskCounts(ctx context.Context, slaveIDs []string) (map[string]TaskCounts, error)
	// ResourceUtilization returns the free and total resource quantities
	// for a pool, across cpus, mem, and disk.
	ResourceUtilization(ctx context.Context, pool string) (free, total Quantities, err error)
}
