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

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pilgrim2go/paasta/internal/fleet"
	"github.com/pilgrim2go/paasta/internal/mesosclient"
	"github.com/pilgrim2go/paasta/pkg/log"
)

// pidPattern matches a Mesos slave pid of the form "slave(N)@<ip>:<port>",
// capturing the IP.
var pidPattern = regexp.MustCompile(`^slave\(\d+\)@([^:]+):\d+$`)

// ipFromPID extracts the IP address embedded in a Mesos slave pid. Returns
// "" if the pid doesn't match the expected shape.
func ipFromPID(pid string) string {
	m := pidPattern.FindStringSubmatch(pid)
	if m == nil {
		return ""
	}
	return m[1]
}

// View is the Cluster View (component B): it joins fleet-reported instances
// with Mesos-reported slaves by IP, attaching per-instance weight from the
// fleet's launch spec.
type View struct {
	Fleet *fleet.Client
	Mesos mesosclient.Client
}

// Build produces the joined Slave list for one pool's fleet request. The
// EC2 client backing v.Fleet is already scoped to a region, so unlike the
// boto3-v1 original this never takes a region argument.
//
//  1. Active instance-ids -> describe to obtain (private_ip, instance_type).
//  2. Fleet's IP set S = set of private IPs from the describe.
//  3. For each Mesos slave whose pid-IP is in S: emit a Slave carrying the
//     matching instance-id, instance-type, and instance_weight.
//  4. Mesos slaves not in S are dropped.
func (v *View) Build(ctx context.Context, req *fleet.Request, pool string) ([]Slave, error) {
	if req == nil {
		return nil, nil
	}

	activeIDs, err := v.Fleet.GetActiveInstances(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("cluster: list active instances for %q: %w", req.ID, err)
	}
	if len(activeIDs) == 0 {
		return nil, nil
	}

	instances, err := v.Fleet.DescribeInstances(ctx, activeIDs, nil)
	if err != nil {
		return nil, fmt.Errorf("cluster: describe instances for %q: %w", req.ID, err)
	}

	byIP := make(map[string]fleet.Instance, len(instances))
	for _, inst := range instances {
		if inst.PrivateIP == "" {
			continue
		}
		byIP[inst.PrivateIP] = inst
	}

	mesosSlaves, err := v.Mesos.Slaves(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("cluster: list mesos slaves for pool %q: %w", pool, err)
	}

	weights := req.InstanceTypeWeights()

	var slaves []Slave
	var slaveIDs []string
	for _, ms := range mesosSlaves {
		ip := ipFromPID(ms.PID)
		if ip == "" {
			log.FromContext(ctx).Warnw("mesos slave has unparseable pid, dropping", "slave_id", ms.ID, "pid", ms.PID)
			continue
		}
		inst, ok := byIP[ip]
		if !ok {
			continue
		}
		weight := weights[inst.InstanceType]
		if weight <= 0 {
			log.FromContext(ctx).Warnw("fleet instance type carries no positive weight, dropping slave", "slave_id", ms.ID, "instance_type", inst.InstanceType)
			continue
		}
		slaves = append(slaves, Slave{
			ID:             ms.ID,
			Hostname:       ms.Hostname,
			PID:            ms.PID,
			IP:             ip,
			InstanceID:     inst.InstanceID,
			InstanceType:   inst.InstanceType,
			InstanceWeight: weight,
		})
		slaveIDs = append(slaveIDs, ms.ID)
	}

	if len(slaves) == 0 {
		return nil, nil
	}

	counts, err := v.Mesos.TaskCounts(ctx, slaveIDs)
	if err != nil {
		return nil, fmt.Errorf("cluster: fetch task counts for pool %q: %w", pool, err)
	}
	for i := range slaves {
		if c, ok := counts[slaves[i].ID]; ok {
			slaves[i].TaskCounts = TaskCounts{Total: c.Total, ChronosCount: c.ChronosCount}
		}
	}

	return slaves, nil
}
