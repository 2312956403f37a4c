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

// Package cluster implements the autoscaling engine: the cluster view that
// joins fleet instances with Mesos slaves, the utilization-to-delta
// computation, slave selection, and the graceful-terminate protocol.
package cluster

// Resource identifies one spot-fleet-backed capacity pool.
type Resource struct {
	ID     string
	Type   string // always "sfr" today; kept as a field for the registry in package autoscaling.
	Region string
	Pool   string
}

// PoolSettings is the mutable, per-pool configuration read once per loop
// iteration.
type PoolSettings struct {
	DrainTimeoutSeconds int
	TargetUtilization   float64 // in (0, 1)
}

// TaskCounts summarizes the tasks Mesos has scheduled onto one slave.
type TaskCounts struct {
	Total        int
	ChronosCount int
}

// MesosSlave is the subset of Mesos master-state this engine needs about a
// registered slave, before it has been joined against fleet instances.
type MesosSlave struct {
	ID       string
	Hostname string
	PID      string
	Pool     string
}

// Slave is the joined view produced by the Cluster View (component B):
// a Mesos slave matched to the fleet instance that backs it.
type Slave struct {
	ID             string
	Hostname       string
	PID            string
	IP             string
	InstanceID     string
	InstanceType   string
	InstanceWeight float64 // invariant: > 0
	TaskCounts     TaskCounts
}

// ResourceQuantities is a snapshot of one dimension group (cpus/mem/disk)
// either free or total, mirroring paasta's ResourceInfo.
type ResourceQuantities struct {
	CPUs float64
	Mem  float64
	Disk float64
}

// UtilizationSnapshot is the free/total resource picture for one pool at one
// instant.
type UtilizationSnapshot struct {
	Free  ResourceQuantities
	Total ResourceQuantities
}
