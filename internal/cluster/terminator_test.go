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
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pilgrim2go/paasta/internal/drainclient/drainclienttest"
	"github.com/pilgrim2go/paasta/internal/fleet"
)

// fakeEC2 implements fleet.EC2API against an in-memory spot fleet request.
type fakeEC2 struct {
	state          types.BatchState
	targetCapacity int32
	modifyErr      error
	terminateErr   error
}

func (f *fakeEC2) DescribeSpotFleetRequests(_ context.Context, _ *ec2.DescribeSpotFleetRequestsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSpotFleetRequestsOutput, error) {
	tc := f.targetCapacity
	return &ec2.DescribeSpotFleetRequestsOutput{
		SpotFleetRequestConfigs: []types.SpotFleetRequestConfig{
			{
				SpotFleetRequestState: types.BatchState(f.state),
				SpotFleetRequestConfig: &types.SpotFleetRequestConfigData{
					TargetCapacity: &tc,
				},
			},
		},
	}, nil
}

func (f *fakeEC2) DescribeSpotFleetInstances(_ context.Context, _ *ec2.DescribeSpotFleetInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeSpotFleetInstancesOutput, error) {
	return &ec2.DescribeSpotFleetInstancesOutput{}, nil
}

func (f *fakeEC2) ModifySpotFleetRequest(_ context.Context, params *ec2.ModifySpotFleetRequestInput, _ ...func(*ec2.Options)) (*ec2.ModifySpotFleetRequestOutput, error) {
	if f.modifyErr != nil {
		return nil, f.modifyErr
	}
	if params.TargetCapacity != nil {
		f.targetCapacity = *params.TargetCapacity
	}
	f.state = "active"
	return &ec2.ModifySpotFleetRequestOutput{}, nil
}

func (f *fakeEC2) DescribeInstances(_ context.Context, _ *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return &ec2.DescribeInstancesOutput{}, nil
}

func (f *fakeEC2) TerminateInstances(_ context.Context, _ *ec2.TerminateInstancesInput, _ ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error) {
	if f.terminateErr != nil {
		return nil, f.terminateErr
	}
	return &ec2.TerminateInstancesOutput{}, nil
}

func newTestSlave() Slave {
	return Slave{ID: "slave-1", Hostname: "host1", IP: "10.0.0.1", InstanceID: "i-1", InstanceWeight: 1}
}

func TestTerminateSuccessDoesNotUndrain(t *testing.T) {
	orig := WaitSafePollInterval
	WaitSafePollInterval = time.Millisecond
	defer func() { WaitSafePollInterval = orig }()

	ec2Fake := &fakeEC2{state: "active", targetCapacity: 10}
	drain := &drainclienttest.Fake{SafeToKill: true}
	term := &Terminator{Fleet: fleet.New(ec2Fake), Drain: drain}

	err := term.Terminate(context.Background(), "sfr-1", "pool-a", newTestSlave(), PoolSettings{DrainTimeoutSeconds: 1}, 10, 9, false)
	if err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	for _, call := range drain.Calls {
		if call.Method == "undrain" {
			t.Fatalf("undrain called on success path: %+v", drain.Calls)
		}
	}
}

func TestTerminateDrainFailureUndrainsAndReturnsDrainFailedError(t *testing.T) {
	ec2Fake := &fakeEC2{state: "active", targetCapacity: 10}
	drain := &drainclienttest.Fake{DrainErr: errors.New("boom")}
	term := &Terminator{Fleet: fleet.New(ec2Fake), Drain: drain}

	err := term.Terminate(context.Background(), "sfr-1", "pool-a", newTestSlave(), PoolSettings{DrainTimeoutSeconds: 1}, 10, 9, false)

	var drainErr *DrainFailedError
	if !errors.As(err, &drainErr) {
		t.Fatalf("err = %v, want *DrainFailedError", err)
	}
	if len(drain.Calls) != 2 || drain.Calls[1].Method != "undrain" {
		t.Fatalf("expected drain then undrain, got %+v", drain.Calls)
	}
}

func TestTerminateCapacitySetFailureUndrainsAndReturnsError(t *testing.T) {
	ec2Fake := &fakeEC2{state: "active", targetCapacity: 10, modifyErr: errors.New("api down")}
	drain := &drainclienttest.Fake{}
	term := &Terminator{Fleet: fleet.New(ec2Fake), Drain: drain}

	err := term.Terminate(context.Background(), "sfr-1", "pool-a", newTestSlave(), PoolSettings{DrainTimeoutSeconds: 1}, 10, 9, false)

	var capErr *FailSetSpotCapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("err = %v, want *FailSetSpotCapacityError", err)
	}
	foundUndrain := false
	for _, call := range drain.Calls {
		if call.Method == "undrain" {
			foundUndrain = true
		}
	}
	if !foundUndrain {
		t.Fatalf("expected undrain after capacity-set failure, got %+v", drain.Calls)
	}
}

func TestTerminateInstanceFailureRestoresCapacityAndUndrains(t *testing.T) {
	orig := WaitSafePollInterval
	WaitSafePollInterval = time.Millisecond
	defer func() { WaitSafePollInterval = orig }()

	ec2Fake := &fakeEC2{state: "active", targetCapacity: 10, terminateErr: errors.New("terminate failed")}
	drain := &drainclienttest.Fake{SafeToKill: true}
	term := &Terminator{Fleet: fleet.New(ec2Fake), Drain: drain}

	err := term.Terminate(context.Background(), "sfr-1", "pool-a", newTestSlave(), PoolSettings{DrainTimeoutSeconds: 1}, 10, 9, false)

	var termErr *TerminateFailedError
	if !errors.As(err, &termErr) {
		t.Fatalf("err = %v, want *TerminateFailedError", err)
	}
	if ec2Fake.targetCapacity != 10 {
		t.Fatalf("capacity restore: got %d, want 10", ec2Fake.targetCapacity)
	}
	foundUndrain := false
	for _, call := range drain.Calls {
		if call.Method == "undrain" {
			foundUndrain = true
		}
	}
	if !foundUndrain {
		t.Fatalf("expected undrain after terminate failure, got %+v", drain.Calls)
	}
}
