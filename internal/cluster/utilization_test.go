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

func TestDeltaScaleUpRoundsUp(t *testing.T) {
	snapshot := UtilizationSnapshot{
		Free:  ResourceQuantities{CPUs: 1, Mem: 10, Disk: 10},
		Total: ResourceQuantities{CPUs: 10, Mem: 10, Disk: 10},
	}
	// max utilization = 1 - 1/10 = 0.9; target = 0.5 -> e = 0.5-0.9 = -0.4
	// raw = 10 * (1 - (-0.4)) = 14 -> > current, rounds up (already whole here).
	current, target := Delta(snapshot, 0.5, 10)
	if current != 10 {
		t.Fatalf("current = %v, want 10", current)
	}
	if target != 14 {
		t.Fatalf("target = %v, want 14", target)
	}
}

func TestDeltaScaleDownLeavesFraction(t *testing.T) {
	snapshot := UtilizationSnapshot{
		Free:  ResourceQuantities{CPUs: 8, Mem: 10, Disk: 10},
		Total: ResourceQuantities{CPUs: 10, Mem: 10, Disk: 10},
	}
	// max utilization = 1 - 8/10 = 0.2; target = 0.5 -> e = 0.5-0.2 = 0.3
	// raw = 10 * (1-0.3) = 7, which is <= current so it is left fractional.
	_, target := Delta(snapshot, 0.5, 10)
	if target != 7 {
		t.Fatalf("target = %v, want 7", target)
	}
}

func TestDeltaNeverNegative(t *testing.T) {
	snapshot := UtilizationSnapshot{
		Free:  ResourceQuantities{CPUs: 10, Mem: 10, Disk: 10},
		Total: ResourceQuantities{CPUs: 10, Mem: 10, Disk: 10},
	}
	// utilization = 0; target = 1.5 -> e = 1.5-0 = 1.5 -> raw = 1*(1-1.5) = -0.5,
	// a negative raw that Delta must clamp to 0.
	_, target := Delta(snapshot, 1.5, 1)
	if target < 0 {
		t.Fatalf("target = %v, want >= 0", target)
	}
}

func TestMaxUtilizationPicksMostConstrainedDimension(t *testing.T) {
	snapshot := UtilizationSnapshot{
		Free:  ResourceQuantities{CPUs: 9, Mem: 1, Disk: 9},
		Total: ResourceQuantities{CPUs: 10, Mem: 10, Disk: 10},
	}
	if u := maxUtilization(snapshot); u != 0.9 {
		t.Fatalf("maxUtilization = %v, want 0.9 (mem dimension)", u)
	}
}

func TestUtilizationOfZeroTotal(t *testing.T) {
	if u := utilizationOf(5, 0); u != 0 {
		t.Fatalf("utilizationOf with zero total = %v, want 0", u)
	}
}
