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
	"fmt"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/pilgrim2go/paasta/internal/cluster"
	"github.com/pilgrim2go/paasta/pkg/log"
	"github.com/pilgrim2go/paasta/pkg/metrics"
)

// Loop runs one autoscale tick across a set of resources.
type Loop struct {
	Registry *Registry

	// Parallelism bounds how many pools are processed concurrently. Zero or
	// one means strictly sequential. Ordering within a single pool is
	// always sequential regardless of this setting, since a pool's
	// downscale loop never spans goroutines.
	Parallelism int
}

// PoolSettingsLookup resolves a pool name to its PoolSettings.
type PoolSettingsLookup func(pool string) (cluster.PoolSettings, error)

// Tick processes every resource once. A failed pool is logged and
// aggregated into the returned error via multierr, but never prevents the
// remaining pools from running (spec: "a failed pool never affects another
// pool").
func (l *Loop) Tick(ctx context.Context, resources []cluster.Resource, settings PoolSettingsLookup, dryRun bool) error {
	g, gctx := errgroup.WithContext(ctx)
	if l.Parallelism > 1 {
		g.SetLimit(l.Parallelism)
	} else {
		g.SetLimit(1)
	}

	var errs error
	errsCh := make(chan error, len(resources))

	for _, resource := range resources {
		resource := resource
		g.Go(func() error {
			errsCh <- l.runOne(gctx, resource, settings, dryRun)
			return nil
		})
	}
	_ = g.Wait()
	close(errsCh)
	for err := range errsCh {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (l *Loop) runOne(ctx context.Context, resource cluster.Resource, lookup PoolSettingsLookup, dryRun bool) error {
	logger := log.FromContext(ctx).With("resource_id", resource.ID, "pool", resource.Pool)
	start := time.Now()
	defer func() {
		metrics.LoopDurationSeconds.WithLabelValues(resource.Pool).Observe(time.Since(start).Seconds())
	}()

	poolSettings, err := lookup(resource.Pool)
	if err != nil {
		return fmt.Errorf("autoscaling: pool settings for %q: %w", resource.Pool, err)
	}

	entry, err := l.Registry.lookup(resource.Type)
	if err != nil {
		return err
	}

	current, target, err := entry.provider(ctx, resource.ID, resource, poolSettings)
	if err != nil {
		logger.Errorw("metrics provider failed", "error", err)
		return fmt.Errorf("autoscaling: metrics provider for %q: %w", resource.ID, err)
	}

	if current == target {
		logger.Debugw("at target capacity, nothing to do", "capacity", current)
		return nil
	}

	if err := entry.scaler(ctx, resource, current, target, poolSettings, dryRun); err != nil {
		logger.Errorw("scaler failed", "error", err, "current", current, "target", target)
		return fmt.Errorf("autoscaling: scaler for %q: %w", resource.ID, err)
	}

	logger.Infow("tick complete", "current", current, "target", target, "dry_run", dryRun)
	return nil
}
