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

package jobconfig

import (
	"fmt"

	"github.com/pilgrim2go/paasta/pkg/metrics"
)

const (
	defaultEpsilon  = "PT60S"
	defaultRetries  = 2
	defaultCPUs     = 0.1
	defaultMem      = 128.0
	defaultDisk     = 256.0
	defaultDisabled = false
)

// SetDefaults fills in the parameters the scheduler requires but this
// config leaves unset. Idempotent: a field already set is left alone.
// Async is deliberately never defaulted here; Format always forces it to
// false on the way out since async jobs aren't supported.
func SetDefaults(cfg *JobConfig) *JobConfig {
	out := *cfg
	if out.Epsilon == "" {
		out.Epsilon = defaultEpsilon
	}
	if out.Retries == nil {
		r := defaultRetries
		out.Retries = &r
	}
	if out.CPUs == nil {
		c := defaultCPUs
		out.CPUs = &c
	}
	if out.Mem == nil {
		m := defaultMem
		out.Mem = &m
	}
	if out.Disk == nil {
		d := defaultDisk
		out.Disk = &d
	}
	if out.Disabled == nil {
		d := defaultDisabled
		out.Disabled = &d
	}
	return &out
}

// requiredFields lists the parameters CheckJobReqs demands per job type,
// beyond the schedule/parents exclusive-or docker jobs also need.
var requiredFields = map[JobType][]string{
	JobTypeScheduled: {"name", "schedule"},
	JobTypeDependent: {"name", "parents"},
	JobTypeDocker:    {"name", "container"},
}

// CheckJobReqs reports whether cfg carries every field its job type
// requires. A docker job additionally requires exactly one of
// schedule/parents; requiring both or neither is a separate failure.
func CheckJobReqs(cfg *JobConfig, jobType JobType) (bool, []string) {
	fields, ok := requiredFields[jobType]
	if !ok {
		return false, []string{fmt.Sprintf("'%s' is not a supported job type. Aborting job requirements check.", jobType)}
	}

	var problems []string
	for _, field := range fields {
		if !hasField(cfg, field) {
			problems = append(problems, fmt.Sprintf("Your Chronos config is missing '%s', a required parameter for a '%s job'.", field, jobType))
		}
	}

	if jobType == JobTypeDocker {
		hasSchedule := cfg.Schedule != ""
		hasParents := len(cfg.Parents) > 0
		switch {
		case hasSchedule && hasParents:
			problems = append(problems, "Your Chronos config may only specify one of 'schedule' or 'parents' for a 'docker job', not both.")
		case !hasSchedule && !hasParents:
			problems = append(problems, "Your Chronos config must specify one of 'schedule' or 'parents' for a 'docker job'.")
		}
	}

	return len(problems) == 0, problems
}

func hasField(cfg *JobConfig, field string) bool {
	switch field {
	case "name":
		return cfg.Name != ""
	case "schedule":
		return cfg.Schedule != ""
	case "parents":
		return len(cfg.Parents) > 0
	case "container":
		return len(cfg.Container) > 0
	default:
		return false
	}
}

// RawFields reports any JSON key in raw that this engine doesn't
// understand, so Format can reject configs carrying typos or
// unsupported parameters rather than silently dropping them.
func RawFields(raw map[string]interface{}) []string {
	var unknown []string
	for k := range raw {
		if !knownFields[k] {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// checkedParams lists, in order, every parameter Format runs through
// Check after defaulting.
var checkedParams = []string{"epsilon", "retries", "async", "cpus", "mem", "disk", "schedule", "schedule_time_zone"}

// Format defaults, validates, and renders cfg into the map the scheduler
// API expects for jobType. It returns the first InvalidJobConfigError
// encountered, naming the offending parameter, and stops at the first
// missing-requirement problem too.
func Format(cfg *JobConfig, jobType JobType, raw map[string]interface{}) (map[string]interface{}, error) {
	if unknown := RawFields(raw); len(unknown) > 0 {
		metrics.ValidatorRejectionsTotal.WithLabelValues(unknown[0]).Inc()
		return nil, &InvalidJobConfigError{Param: unknown[0], Message: fmt.Sprintf("'%s' is not a supported parameter for a Chronos job.", unknown[0])}
	}

	defaulted := SetDefaults(cfg)

	if ok, problems := CheckJobReqs(defaulted, jobType); !ok {
		metrics.ValidatorRejectionsTotal.WithLabelValues("job_type").Inc()
		return nil, &InvalidJobConfigError{Param: "job_type", Message: problems[0]}
	}

	for _, param := range checkedParams {
		if ok, msg := Check(defaulted, param); !ok {
			return nil, &InvalidJobConfigError{Param: param, Message: msg}
		}
	}

	out := map[string]interface{}{
		"name":               defaulted.Name,
		"command":            defaulted.Command,
		"epsilon":            defaulted.Epsilon,
		"retries":            *defaulted.Retries,
		"async":              false,
		"cpus":               *defaulted.CPUs,
		"mem":                *defaulted.Mem,
		"disk":               *defaulted.Disk,
		"disabled":           *defaulted.Disabled,
		"owner":              defaulted.Owner,
		"description":        defaulted.Description,
		"schedule":           defaulted.Schedule,
		"schedule_time_zone": defaulted.ScheduleTimeZone,
	}
	if len(defaulted.Container) > 0 {
		out["container"] = defaulted.Container
	}
	if len(defaulted.Parents) > 0 {
		out["parents"] = defaulted.Parents
	}

	return out, nil
}
