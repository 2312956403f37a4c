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

package autoscaling

import (
	"context"

	"github.com/pilgrim2go/paasta/internal/cluster"
	"github.com/pilgrim2go/paasta/internal/fleet"
	"github.com/pilgrim2go/paasta/internal/mesosclient"
	"github.com/pilgrim2go/paasta/pkg/metrics"
)

// ResourceTypeSpotFleet is the resource.Type value for spot-fleet-backed
// pools, the only cloud this engine knows about today.
const ResourceTypeSpotFleet = "sfr"

// SpotFleet bundles the collaborators the spot-fleet metrics provider and
// scaler need, and registers them against a Registry under "sfr".
type SpotFleet struct {
	Fleet      *fleet.Client
	Mesos      mesosclient.Client
	View       *cluster.View
	Terminator *cluster.Terminator
}

// Register wires this SpotFleet's provider and scaler into reg.
func (s *SpotFleet) Register(reg *Registry) {
	reg.Register(ResourceTypeSpotFleet, s.metricsProvider, s.scaler)
}

func (s *SpotFleet) metricsProvider(ctx context.Context, id string, resource cluster.Resource, settings cluster.PoolSettings) (float64, float64, error) {
	req, err := s.Fleet.GetRequest(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	if req == nil || req.State.Cancelled() {
		return 0, 0, nil
	}

	free, total, err := s.Mesos.ResourceUtilization(ctx, resource.Pool)
	if err != nil {
		return 0, 0, err
	}

	snapshot := cluster.UtilizationSnapshot{
		Free:  cluster.ResourceQuantities{CPUs: free.CPUs, Mem: free.Mem, Disk: free.Disk},
		Total: cluster.ResourceQuantities{CPUs: total.CPUs, Mem: total.Mem, Disk: total.Disk},
	}
	return cluster.Delta(snapshot, settings.TargetUtilization, req.TargetCapacity)
}

func (s *SpotFleet) scaler(ctx context.Context, resource cluster.Resource, current, target float64, settings cluster.PoolSettings, dryRun bool) error {
	if target > current {
		metrics.FleetModifyTotal.WithLabelValues(resource.Pool, "up").Inc()
		return s.Fleet.SetCapacity(ctx, resource.ID, target, dryRun)
	}
	if target == current {
		return nil
	}

	metrics.FleetModifyTotal.WithLabelValues(resource.Pool, "down").Inc()
	req, err := s.Fleet.GetRequest(ctx, resource.ID)
	if err != nil {
		return err
	}
	if req == nil || req.State.Cancelled() {
		return nil
	}

	slaves, err := s.View.Build(ctx, req, resource.Pool)
	if err != nil {
		return err
	}

	downscaler := &cluster.Downscaler{Mesos: s.Mesos, Terminator: s.Terminator}
	_, err = downscaler.Run(ctx, resource.ID, resource.Pool, slaves, settings, current, target, dryRun)
	if err != nil {
		metrics.DownscaleAbortedTotal.WithLabelValues(resource.Pool, "capacity_set_failure").Inc()
	}
	return err
}
