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
	"errors"

	"github.com/pilgrim2go/paasta/internal/mesosclient"
	"github.com/pilgrim2go/paasta/pkg/log"
)

// Downscaler drives the Downscale Loop (component F): repeatedly picks the
// next slave to kill, invokes the Graceful Terminator, updates the running
// capacity, and stops on target reached or an unrecoverable error.
type Downscaler struct {
	Mesos      mesosclient.Client
	Terminator *Terminator
}

// Run shrinks resourceID from currentCapacity toward targetCapacity by
// terminating slaves out of the given candidate list, in the order the
// Slave Selector (component D) picks them. It returns the capacity actually
// reached; on FailSetSpotCapacityError the whole pass aborts, otherwise a
// single slave's failure is logged and the next candidate is tried.
func (d *Downscaler) Run(ctx context.Context, resourceID, pool string, slaves []Slave, settings PoolSettings, currentCapacity, targetCapacity float64, dryRun bool) (float64, error) {
	logger := log.FromContext(ctx).With("resource_id", resourceID)
	remaining := append([]Slave(nil), slaves...)
	running := currentCapacity

	for len(remaining) > 0 {
		ids := make([]string, len(remaining))
		for i, s := range remaining {
			ids[i] = s.ID
		}
		counts, err := d.Mesos.TaskCounts(ctx, ids)
		if err != nil {
			return running, err
		}
		for i := range remaining {
			if c, ok := counts[remaining[i].ID]; ok {
				remaining[i].TaskCounts = TaskCounts{Total: c.Total, ChronosCount: c.ChronosCount}
			}
		}

		sorted := SortSlavesToKill(remaining)
		head := sorted[0]

		newCapacity := running - head.InstanceWeight
		if newCapacity < targetCapacity {
			logger.Infow("stopping downscale, next termination would undershoot target", "running_capacity", running, "target_capacity", targetCapacity, "instance_weight", head.InstanceWeight)
			break
		}

		err = d.Terminator.Terminate(ctx, resourceID, pool, head, settings, running, newCapacity, dryRun)
		remaining = removeSlave(remaining, head.ID)

		var capErr *FailSetSpotCapacityError
		if errors.As(err, &capErr) {
			logger.Errorw("aborting downscale after capacity-set failure", "slave_id", head.ID, "error", err)
			return running, err
		}
		if err != nil {
			logger.Warnw("skipping slave after termination failure, continuing downscale", "slave_id", head.ID, "error", err)
			continue
		}
		running = newCapacity
	}

	return running, nil
}

func removeSlave(slaves []Slave, id string) []Slave {
	out := make([]Slave, 0, len(slaves))
	for _, s := range slaves {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
