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

package mesosclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPClient is a mesosclient.Client backed by the standard library's
// net/http, talking to a state-summary style endpoint grouped by pool the
// way paasta's own Mesos tooling queries master state. There is no
// off-the-shelf Mesos SDK in the examples to ground a richer client on, so
// this stays a thin, narrowly-scoped HTTP caller, matching drainclient's
// shape.
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPClient builds an HTTPClient with a bounded per-request timeout.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("mesosclient: build request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("mesosclient: %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mesosclient: %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) Slaves(ctx context.Context, pool string) ([]Slave, error) {
	var out []Slave
	if err := c.get(ctx, "/pools/"+pool+"/slaves", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) TaskCounts(ctx context.Context, slaveIDs []string) (map[string]TaskCounts, error) {
	var out map[string]TaskCounts
	if err := c.get(ctx, "/slaves/task-counts?ids="+joinIDs(slaveIDs), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ResourceUtilization(ctx context.Context, pool string) (Quantities, Quantities, error) {
	var out struct {
		Free  Quantities `json:"free"`
		Total Quantities `json:"total"`
	}
	if err := c.get(ctx, "/pools/"+pool+"/utilization", &out); err != nil {
		return Quantities{}, Quantities{}, err
	}
	return out.Free, out.Total, nil
}

func joinIDs(ids []string) string {
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}
