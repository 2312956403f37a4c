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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "autoscale.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
drain_service_url: "http://drain.example.com"
mesos_master_url: "http://mesos.example.com"
parallelism: 2
pools:
  - name: default
    resource_id: sfr-123
    resource_type: sfr
    region: us-west-2
    target_utilization: 0.8
    drain_timeout_seconds: 300
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Pools) != 1 || cfg.Pools[0].Name != "default" {
		t.Fatalf("unexpected pools: %+v", cfg.Pools)
	}

	p, err := cfg.Pool("default")
	if err != nil || p.ResourceID != "sfr-123" {
		t.Fatalf("Pool(default) = (%+v, %v)", p, err)
	}
}

func TestLoadRejectsTargetUtilizationOutOfRange(t *testing.T) {
	path := writeConfig(t, `
drain_service_url: "http://drain.example.com"
mesos_master_url: "http://mesos.example.com"
pools:
  - name: default
    resource_id: sfr-123
    resource_type: sfr
    region: us-west-2
    target_utilization: 1.5
    drain_timeout_seconds: 300
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want validation failure for target_utilization > 1")
	}
}

func TestLoadRejectsMissingPools(t *testing.T) {
	path := writeConfig(t, `
drain_service_url: "http://drain.example.com"
mesos_master_url: "http://mesos.example.com"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load() error = nil, want validation failure for missing pools")
	}
}

func TestPoolUnknownName(t *testing.T) {
	cfg := &FileConfig{Pools: []PoolConfig{{Name: "a"}}}
	if _, err := cfg.Pool("b"); err == nil {
		t.Fatal("Pool(unknown) error = nil, want error")
	}
}
