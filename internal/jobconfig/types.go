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

// Package jobconfig is the Job-Config Validator (component H): it
// validates and defaults a scheduled-job description before it is
// submitted, enforcing the ISO-8601 schedule/retry/resource shape the
// scheduler requires.
package jobconfig

// JobConfig is a partial or fully-specified scheduled-job description.
// Optional numeric and boolean fields are pointers so that "absent" can be
// told apart from "explicitly zero" the way the original's sparse
// dictionary did.
type JobConfig struct {
	Name             string                 `json:"name,omitempty"`
	Description      string                 `json:"description,omitempty"`
	Command          string                 `json:"command,omitempty"`
	Schedule         string                 `json:"schedule,omitempty"`
	ScheduleTimeZone string                 `json:"schedule_time_zone,omitempty"`
	Epsilon          string                 `json:"epsilon,omitempty"`
	Retries          *int                   `json:"retries,omitempty"`
	Async            *bool                  `json:"async,omitempty"`
	CPUs             *float64               `json:"cpus,omitempty"`
	Mem              *float64               `json:"mem,omitempty"`
	Disk             *float64               `json:"disk,omitempty"`
	Owner            string                 `json:"owner,omitempty"`
	Disabled         *bool                  `json:"disabled,omitempty"`
	Container        map[string]interface{} `json:"container,omitempty"`
	Parents          []string               `json:"parents,omitempty"`
}

// JobType names the three required-field shapes CheckJobReqs enforces.
type JobType string

const (
	JobTypeScheduled JobType = "scheduled"
	JobTypeDependent JobType = "dependent"
	JobTypeDocker    JobType = "docker"
)

// knownFields lists every JSON key JobConfig understands; RawFields uses it
// to name unsupported parameters in a submitted config.
var knownFields = map[string]bool{
	"name": true, "description": true, "command": true, "schedule": true,
	"schedule_time_zone": true, "epsilon": true, "retries": true, "async": true,
	"cpus": true, "mem": true, "disk": true, "owner": true, "disabled": true,
	"container": true, "parents": true,
}
