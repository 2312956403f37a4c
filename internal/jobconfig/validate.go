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
	"regexp"
	"strings"
	"time"

	"github.com/pilgrim2go/paasta/pkg/metrics"
)

// iso8601DurationPattern matches an ISO-8601 duration with at least one
// designated component (rejects bare "P" or "PT").
var iso8601DurationPattern = regexp.MustCompile(`^P(\d+Y)?(\d+M)?(\d+W)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)

// scheduleRepeatPattern matches the "R" or "R<n>" repeat field of an
// ISO-8601 repeating interval.
var scheduleRepeatPattern = regexp.MustCompile(`^R\d*$`)

func isValidDuration(s string) bool {
	if s == "" {
		return false
	}
	if !iso8601DurationPattern.MatchString(s) {
		return false
	}
	return strings.ContainsAny(s, "0123456789")
}

// CheckEpsilon validates the epsilon ISO-8601 duration, if present.
func CheckEpsilon(cfg *JobConfig) (bool, string) {
	if cfg.Epsilon == "" {
		return true, ""
	}
	if !isValidDuration(cfg.Epsilon) {
		return false, fmt.Sprintf("The specified epsilon value %q does not conform to the ISO8601 format.", cfg.Epsilon)
	}
	return true, ""
}

// CheckRetries validates that retries, if present, is non-negative.
func CheckRetries(cfg *JobConfig) (bool, string) {
	if cfg.Retries == nil {
		return true, ""
	}
	if *cfg.Retries < 0 {
		return false, fmt.Sprintf("The specified retries value '%d' is not a valid non-negative integer.", *cfg.Retries)
	}
	return true, ""
}

// CheckAsync rejects async=true outright; this engine never supports
// asynchronous jobs.
func CheckAsync(cfg *JobConfig) (bool, string) {
	if cfg.Async != nil && *cfg.Async {
		return false, "The config specifies that the job is async, which we don't support."
	}
	return true, ""
}

func checkPositiveFloat(param string, value *float64) (bool, string) {
	if value == nil {
		return true, ""
	}
	if *value <= 0 {
		return false, fmt.Sprintf("The specified %s value '%v' is not a positive number.", param, *value)
	}
	return true, ""
}

// CheckCPUs validates that cpus, if present, is positive.
func CheckCPUs(cfg *JobConfig) (bool, string) { return checkPositiveFloat("cpus", cfg.CPUs) }

// CheckMem validates that mem, if present, is positive.
func CheckMem(cfg *JobConfig) (bool, string) { return checkPositiveFloat("mem", cfg.Mem) }

// CheckDisk validates that disk, if present, is positive.
func CheckDisk(cfg *JobConfig) (bool, string) { return checkPositiveFloat("disk", cfg.Disk) }

// CheckSchedule validates the "R[n]/[start]/interval" repeating-interval
// shape, if a schedule is present.
func CheckSchedule(cfg *JobConfig) (bool, string) {
	if cfg.Schedule == "" {
		return true, ""
	}
	parts := strings.SplitN(cfg.Schedule, "/", 3)
	if len(parts) != 3 {
		return false, fmt.Sprintf("The specified schedule %q is not in the R[n]/[start]/interval format.", cfg.Schedule)
	}
	repeat, start, interval := parts[0], parts[1], parts[2]

	if !scheduleRepeatPattern.MatchString(repeat) {
		return false, fmt.Sprintf("The specified repeat '%s' in schedule '%s' does not conform to the ISO 8601 format.", repeat, cfg.Schedule)
	}

	if start != "" {
		if !strings.Contains(start, "T") {
			return false, fmt.Sprintf(
				"The specified start time '%s' in schedule '%s' does not conform to the ISO 8601 format:\nISO 8601 time designator 'T' missing. Unable to parse datetime string '%s'",
				start, cfg.Schedule, start,
			)
		}
		if _, err := time.Parse(time.RFC3339, start); err != nil {
			return false, fmt.Sprintf(
				"The specified start time '%s' in schedule '%s' does not conform to the ISO 8601 format:\n%v",
				start, cfg.Schedule, err,
			)
		}
	}

	if !isValidDuration(interval) {
		return false, fmt.Sprintf("The specified interval '%s' in schedule '%s' does not conform to the ISO 8601 format.", interval, cfg.Schedule)
	}

	return true, ""
}

// CheckScheduleTimeZone is a documented gap: validating against the IANA tz
// database (rejecting raw offsets like "+0200") was never implemented in
// the source this engine is based on, so this accepts any value.
func CheckScheduleTimeZone(cfg *JobConfig) (bool, string) {
	return true, ""
}

var checks = map[string]func(*JobConfig) (bool, string){
	"epsilon":            CheckEpsilon,
	"retries":            CheckRetries,
	"async":              CheckAsync,
	"cpus":               CheckCPUs,
	"mem":                CheckMem,
	"disk":               CheckDisk,
	"schedule":           CheckSchedule,
	"schedule_time_zone": CheckScheduleTimeZone,
}

// Check dispatches to the named parameter's validator. It returns
// (false, "unsupported parameter") for a param name this engine doesn't
// recognize as checkable.
func Check(cfg *JobConfig, param string) (bool, string) {
	fn, ok := checks[param]
	if !ok {
		metrics.ValidatorRejectionsTotal.WithLabelValues(param).Inc()
		return false, fmt.Sprintf("%q is not a checkable parameter.", param)
	}
	if ok, msg := fn(cfg); !ok {
		metrics.ValidatorRejectionsTotal.WithLabelValues(param).Inc()
		return false, msg
	}
	return true, ""
}
