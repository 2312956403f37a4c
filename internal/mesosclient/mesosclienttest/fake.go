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

// Package mesosclienttest provides an in-memory fake of mesosclient.Client
// for use in tests, grounded on the teacher's pattern of hand-written fakes
// implementing narrow interfaces (pkg/aws/awsapi test doubles).
package mesosclienttest

import (
	"context"
	"fmt"

	"github.com/pilgrim2go/paasta/internal/mesosclient"
)

// Fake is an in-memory mesosclient.Client. The zero value is ready to use.
type Fake struct {
	SlavesByPool map[string][]mesosclient.Slave
	Counts       map[string]mesosclient.TaskCounts
	SlavesErr    error
	CountsErr    error

	FreeByPool  map[string]mesosclient.Quantities
	TotalByPool map[string]mesosclient.Quantities
	UtilErr     error
}

var _ mesosclient.Client = (*Fake)(nil)

func (f *Fake) Slaves(_ context.Context, pool string) ([]mesosclient.Slave, error) {
	if f.SlavesErr != nil {
		return nil, f.SlavesErr
	}
	return f.SlavesByPool[pool], nil
}

func (f *Fake) TaskCounts(_ context.Context, slaveIDs []string) (map[string]mesosclient.TaskCounts, error) {
	if f.CountsErr != nil {
		return nil, f.CountsErr
	}
	out := make(map[string]mesosclient.TaskCounts, len(slaveIDs))
	for _, id := range slaveIDs {
		counts, ok := f.Counts[id]
		if !ok {
			return nil, fmt.Errorf("mesosclienttest: no task counts registered for slave %q", id)
		}
		out[id] = counts
	}
	return out, nil
}

func (f *Fake) ResourceUtilization(_ context.Context, pool string) (mesosclient.Quantities, mesosclient.Quantities, error) {
	if f.UtilErr != nil {
		return mesosclient.Quantities{}, mesosclient.Quantities{}, f.UtilErr
	}
	return f.FreeByPool[pool], f.TotalByPool[pool], nil
}
