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

import "fmt"

// InvalidJobConfigError names the offending parameter and carries a
// human-readable reason; Format raises this on any validation failure
// (spec §7: ConfigInvalid).
type InvalidJobConfigError struct {
	Param   string
	Message string
}

func (e *InvalidJobConfigError) Error() string {
	return fmt.Sprintf("invalid job config parameter %q: %s", e.Param, e.Message)
}
