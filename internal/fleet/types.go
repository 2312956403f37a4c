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

package fleet

// State is the lifecycle state reported by the cloud spot-fleet RPCs.
type State string

const (
	StateActive               State = "active"
	StateModifying            State = "modifying"
	StateCancelled            State = "cancelled"
	StateCancelledRunning     State = "cancelled_running"
	StateCancelledTerminating State = "cancelled_terminating"
)

// Cancelled reports whether s is one of the terminal cancelled states that
// the utilization engine and the scaler must treat as "do nothing".
func (s State) Cancelled() bool {
	switch s {
	case StateCancelled, StateCancelledRunning, StateCancelledTerminating:
		return true
	default:
		return false
	}
}

// LaunchSpec maps one instance type to its weighted contribution to fleet
// capacity.
type LaunchSpec struct {
	InstanceType     string
	WeightedCapacity float64
}

// Request is the opaque cloud-side spot-fleet request, reduced to the
// fields this engine reads.
type Request struct {
	ID                   string
	State                State
	TargetCapacity       float64
	LaunchSpecifications []LaunchSpec
}

// InstanceTypeWeights indexes LaunchSpecifications by instance type.
func (r *Request) InstanceTypeWeights() map[string]float64 {
	weights := make(map[string]float64, len(r.LaunchSpecifications))
	for _, spec := range r.LaunchSpecifications {
		weights[spec.InstanceType] = spec.WeightedCapacity
	}
	return weights
}

// Instance is a cloud-reported EC2 instance backing a fleet.
type Instance struct {
	InstanceID   string
	PrivateIP    string
	InstanceType string
}
