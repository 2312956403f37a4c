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

// Package autoscaling is the Autoscale Loop (component G): the per-pool
// entry point that picks a metrics provider and a scaler by resource type
// and drives one tick across all configured pools.
package autoscaling

import (
	"context"
	"fmt"

	"github.com/pilgrim2go/paasta/internal/cluster"
)

// MetricsProvider reports (current, target) capacity for one resource.
type MetricsProvider func(ctx context.Context, id string, resource cluster.Resource, settings cluster.PoolSettings) (current, target float64, err error)

// Scaler drives a resource from current toward target capacity.
type Scaler func(ctx context.Context, resource cluster.Resource, current, target float64, settings cluster.PoolSettings, dryRun bool) error

type capability struct {
	provider MetricsProvider
	scaler   Scaler
}

// Registry maps a resource type ("sfr" today) to its metrics provider and
// scaler implementations, so adding a new cloud is adding one entry rather
// than branching engine code on type.
type Registry struct {
	byType map[string]capability
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]capability)}
}

// Register associates a resource type with its provider and scaler.
func (r *Registry) Register(resourceType string, provider MetricsProvider, scaler Scaler) {
	r.byType[resourceType] = capability{provider: provider, scaler: scaler}
}

func (r *Registry) lookup(resourceType string) (capability, error) {
	c, ok := r.byType[resourceType]
	if !ok {
		return capability{}, fmt.Errorf("autoscaling: no provider/scaler registered for resource type %q", resourceType)
	}
	return c, nil
}
