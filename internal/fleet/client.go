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

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/avast/retry-go"

	"github.com/pilgrim2go/paasta/pkg/log"
)

// ModifyTimeout bounds how long SetCapacity waits for a fleet to leave the
// "modifying" state before giving up (spec §4.E step 2, AWS_SPOT_MODIFY_TIMEOUT).
var ModifyTimeout = 5 * time.Minute

// ModifyPollInterval is how often SetCapacity re-polls GetRequest while a
// modification settles.
var ModifyPollInterval = 5 * time.Second

const excessCapacityTerminationPolicy = "noTermination"

// Client is the Fleet Client Adapter (component A).
type Client struct {
	EC2 EC2API
}

// New builds a Client wrapping a concrete EC2 SDK client.
func New(api EC2API) *Client {
	return &Client{EC2: api}
}

// notFound reports whether err is one of the two "not found" AWS error codes
// that this adapter converts to a nil result instead of propagating.
func notFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "InvalidSpotFleetRequestId.NotFound", "InvalidInstanceID.NotFound":
		return true
	default:
		return false
	}
}

// GetRequest returns the current state of a spot-fleet request, or nil if
// the cloud reports it as not found.
func (c *Client) GetRequest(ctx context.Context, id string) (*Request, error) {
	out, err := c.EC2.DescribeSpotFleetRequests(ctx, &ec2.DescribeSpotFleetRequestsInput{
		SpotFleetRequestIds: []string{id},
	})
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("describe spot fleet request %q: %w", id, err)
	}
	if len(out.SpotFleetRequestConfigs) == 0 {
		return nil, nil
	}
	return toFleetRequest(id, out.SpotFleetRequestConfigs[0]), nil
}

// GetActiveInstances returns the instance IDs of the EC2 instances currently
// backing a fleet request.
func (c *Client) GetActiveInstances(ctx context.Context, id string) ([]string, error) {
	out, err := c.EC2.DescribeSpotFleetInstances(ctx, &ec2.DescribeSpotFleetInstancesInput{
		SpotFleetRequestId: &id,
	})
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("describe spot fleet instances %q: %w", id, err)
	}
	ids := make([]string, 0, len(out.ActiveInstances))
	for _, active := range out.ActiveInstances {
		ids = append(ids, aws_toString(active.InstanceId))
	}
	return ids, nil
}

// DescribeInstances resolves instance IDs (or an instance filter) to their
// private IP and instance type.
func (c *Client) DescribeInstances(ctx context.Context, ids []string, filters []types.Filter) ([]Instance, error) {
	out, err := c.EC2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: ids,
		Filters:     filters,
	})
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("describe instances: %w", err)
	}
	var instances []Instance
	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			instances = append(instances, Instance{
				InstanceID:   aws_toString(inst.InstanceId),
				PrivateIP:    aws_toString(inst.PrivateIpAddress),
				InstanceType: string(inst.InstanceType),
			})
		}
	}
	return instances, nil
}

// SetCapacity sets a fleet's target capacity and blocks until the
// modification leaves the "modifying" state, bounded by ModifyTimeout. A
// timeout or a terminal fleet state raises a capacity-set failure; callers
// must treat any error here as the FleetCapacitySetFailure kind (spec §7).
func (c *Client) SetCapacity(ctx context.Context, id string, target float64, dryRun bool) error {
	_, err := c.EC2.ModifySpotFleetRequest(ctx, &ec2.ModifySpotFleetRequestInput{
		SpotFleetRequestId:             &id,
		TargetCapacity:                 aws_toInt32(int32(target)),
		ExcessCapacityTerminationPolicy: types.ExcessCapacityTerminationPolicy(excessCapacityTerminationPolicy),
		DryRun:                         &dryRun,
	})
	if err != nil {
		return fmt.Errorf("modify spot fleet request %q: %w", id, err)
	}
	if dryRun {
		return nil
	}

	deadline := time.Now().Add(ModifyTimeout)
	err = retry.Do(
		func() error {
			req, getErr := c.GetRequest(ctx, id)
			if getErr != nil {
				return retry.Unrecoverable(getErr)
			}
			if req == nil || req.State.Cancelled() {
				return retry.Unrecoverable(fmt.Errorf("spot fleet request %q is terminal or missing", id))
			}
			if req.State == StateModifying {
				return fmt.Errorf("spot fleet request %q still modifying", id)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Delay(ModifyPollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.Attempts(uint(maxAttempts(deadline, ModifyPollInterval))),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.FromContext(ctx).Errorw("spot fleet capacity did not settle", "resource_id", id, "error", err)
		return err
	}
	return nil
}

// Terminate terminates a single instance.
func (c *Client) Terminate(ctx context.Context, instanceID string, dryRun bool) error {
	_, err := c.EC2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
		DryRun:      &dryRun,
	})
	if err != nil {
		return fmt.Errorf("terminate instance %q: %w", instanceID, err)
	}
	return nil
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

func aws_toString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func aws_toInt32(v int32) *int32 { return &v }

func toFleetRequest(id string, cfg types.SpotFleetRequestConfig) *Request {
	req := &Request{
		ID:    id,
		State: State(cfg.SpotFleetRequestState),
	}
	if cfg.SpotFleetRequestConfig == nil {
		return req
	}
	if cfg.SpotFleetRequestConfig.TargetCapacity != nil {
		req.TargetCapacity = float64(*cfg.SpotFleetRequestConfig.TargetCapacity)
	}
	for _, spec := range cfg.SpotFleetRequestConfig.LaunchSpecifications {
		weight := 0.0
		if spec.WeightedCapacity != nil {
			weight = *spec.WeightedCapacity
		}
		req.LaunchSpecifications = append(req.LaunchSpecifications, LaunchSpec{
			InstanceType:     string(spec.InstanceType),
			WeightedCapacity: weight,
		})
	}
	return req
}
