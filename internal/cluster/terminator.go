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
	"time"

	"github.com/avast/retry-go"

	"github.com/pilgrim2go/paasta/internal/drainclient"
	"github.com/pilgrim2go/paasta/internal/fleet"
	"github.com/pilgrim2go/paasta/pkg/log"
	"github.com/pilgrim2go/paasta/pkg/metrics"
)

// DrainHorizon is the fixed duration (600s, expressed in ns for the drain
// RPC) a slave stays marked for draining once the drain starts.
const DrainHorizon = 600 * time.Second

// WaitSafePollInterval is how often the Graceful Terminator re-polls
// IsSafeToKill while waiting for a drained slave's work to migrate off.
var WaitSafePollInterval = 5 * time.Second

// Terminator drives the Graceful Terminator protocol (component E): per
// slave, drain -> shrink capacity -> wait for safe-to-kill -> terminate,
// with compensating rollback on failure.
type Terminator struct {
	Fleet *fleet.Client
	Drain drainclient.Client
}

// Terminate runs the protocol for one slave. newCapacity must already equal
// currentCapacity minus slave.InstanceWeight; callers compute it (component
// F owns the running-capacity bookkeeping).
func (t *Terminator) Terminate(ctx context.Context, resourceID, pool string, slave Slave, settings PoolSettings, currentCapacity, newCapacity float64, dryRun bool) error {
	logger := log.FromContext(ctx).With("resource_id", resourceID, "slave_id", slave.ID, "hostname", slave.Hostname)
	hosts := []string{fmt.Sprintf("%s|%s", slave.Hostname, slave.IP)}

	if dryRun {
		// The drain service has no dry-run mode, so a dry run skips drain,
		// wait-safe and undrain; the fleet calls carry their dry-run flag.
		if err := t.Fleet.SetCapacity(ctx, resourceID, newCapacity, true); err != nil {
			return &FailSetSpotCapacityError{ResourceID: resourceID, Cause: err}
		}
		if err := t.Fleet.Terminate(ctx, slave.InstanceID, true); err != nil {
			return &TerminateFailedError{InstanceID: slave.InstanceID, Cause: err}
		}
		logger.Infow("dry run: would drain and terminate slave", "dry_run", true, "new_capacity", newCapacity)
		return nil
	}

	start := time.Now().Add(time.Duration(settings.DrainTimeoutSeconds) * time.Second).UnixNano()
	if err := t.Drain.Drain(ctx, hosts, start, DrainHorizon.Nanoseconds()); err != nil {
		logger.Errorw("drain failed, undraining defensively", "error", err)
		if uErr := t.Drain.Undrain(ctx, hosts); uErr != nil {
			logger.Errorw("undrain after failed drain also failed", "error", uErr)
		}
		metrics.SlaveTerminationsTotal.WithLabelValues(pool, "drain_failed").Inc()
		return &DrainFailedError{Hostname: slave.Hostname, Cause: err}
	}
	logger.Infow("drained slave", "dry_run", dryRun)

	if err := t.Fleet.SetCapacity(ctx, resourceID, newCapacity, dryRun); err != nil {
		logger.Errorw("failed to shrink fleet capacity, undraining", "error", err)
		if uErr := t.Drain.Undrain(ctx, hosts); uErr != nil {
			logger.Errorw("undrain after failed capacity set also failed", "error", uErr)
		}
		metrics.SlaveTerminationsTotal.WithLabelValues(pool, "capacity_set_failed").Inc()
		return &FailSetSpotCapacityError{ResourceID: resourceID, Cause: err}
	}

	t.waitSafe(ctx, slave.Hostname, settings.DrainTimeoutSeconds, logger)

	if err := t.Fleet.Terminate(ctx, slave.InstanceID, dryRun); err != nil {
		logger.Errorw("terminate failed, restoring capacity and undraining", "error", err)
		if rErr := t.Fleet.SetCapacity(ctx, resourceID, currentCapacity, dryRun); rErr != nil {
			logger.Errorw("compensating capacity restore also failed", "error", rErr)
		}
		if uErr := t.Drain.Undrain(ctx, hosts); uErr != nil {
			logger.Errorw("undrain after failed terminate also failed", "error", uErr)
		}
		metrics.SlaveTerminationsTotal.WithLabelValues(pool, "terminate_failed").Inc()
		return &TerminateFailedError{InstanceID: slave.InstanceID, Cause: err}
	}

	metrics.SlaveTerminationsTotal.WithLabelValues(pool, "terminated").Inc()
	logger.Infow("terminated slave", "dry_run", dryRun)
	return nil
}

// waitSafe polls IsSafeToKill until it reports true or drainTimeoutSeconds
// elapses; the wait is best-effort and does not itself fail the protocol.
func (t *Terminator) waitSafe(ctx context.Context, hostname string, drainTimeoutSeconds int, logger interface {
	Warnw(msg string, keysAndValues ...interface{})
}) {
	deadline := time.Now().Add(time.Duration(drainTimeoutSeconds) * time.Second)
	err := retry.Do(
		func() error {
			safe, err := t.Drain.IsSafeToKill(ctx, hostname)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if !safe {
				return fmt.Errorf("slave %q not yet safe to kill", hostname)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Delay(WaitSafePollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.Attempts(uint(maxAttempts(deadline, WaitSafePollInterval))),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		logger.Warnw("wait-safe did not observe is_safe_to_kill before the drain timeout, proceeding anyway", "error", err)
	}
}

func maxAttempts(deadline time.Time, interval time.Duration) int {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return 1
	}
	n := int(remaining/interval) + 1
	if n < 1 {
		n = 1
	}
	return n
}
