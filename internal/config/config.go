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

// Package config loads and validates the autoscaler's YAML configuration,
// grounded on the teacher's settings package: viper for loading, struct
// tags plus go-playground/validator for enforcing the invariants the rest
// of the engine assumes hold (spec.md §4.J).
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// PoolConfig is one pool's autoscaling settings.
type PoolConfig struct {
	Name                string  `mapstructure:"name" validate:"required"`
	ResourceID          string  `mapstructure:"resource_id" validate:"required"`
	ResourceType        string  `mapstructure:"resource_type" validate:"required,oneof=sfr"`
	Region              string  `mapstructure:"region" validate:"required"`
	TargetUtilization   float64 `mapstructure:"target_utilization" validate:"gt=0,lt=1"`
	DrainTimeoutSeconds int     `mapstructure:"drain_timeout_seconds" validate:"gt=0"`
}

// FileConfig is the top-level shape of the YAML file the CLI reads.
type FileConfig struct {
	DrainServiceURL string       `mapstructure:"drain_service_url" validate:"required,url"`
	MesosMasterURL  string       `mapstructure:"mesos_master_url" validate:"required,url"`
	Parallelism     int          `mapstructure:"parallelism" validate:"gte=0"`
	Pools           []PoolConfig `mapstructure:"pools" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads path as YAML, unmarshals it into a FileConfig, and validates
// it. Any failure here is the one class of error that aborts the whole
// process before a single pool is touched (spec.md §6).
func Load(path string) (*FileConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	var cfg FileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %q: %w", path, err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid %q: %w", path, err)
	}

	return &cfg, nil
}

// Pool looks up a single pool's config by name.
func (c *FileConfig) Pool(name string) (PoolConfig, error) {
	for _, p := range c.Pools {
		if p.Name == name {
			return p, nil
		}
	}
	return PoolConfig{}, fmt.Errorf("config: no pool named %q", name)
}
