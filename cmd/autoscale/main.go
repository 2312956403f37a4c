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

// Command autoscale runs one tick of the cluster autoscaler across a set of
// spot-fleet-backed pools, grounded on the teacher's cobra-based
// cmd/controller entrypoint.
package main

import (
	"context"
	"fmt"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	prometheusv2 "github.com/jonathan-innis/aws-sdk-go-prometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pilgrim2go/paasta/internal/autoscaling"
	"github.com/pilgrim2go/paasta/internal/cluster"
	"github.com/pilgrim2go/paasta/internal/config"
	"github.com/pilgrim2go/paasta/internal/drainclient"
	"github.com/pilgrim2go/paasta/internal/fleet"
	"github.com/pilgrim2go/paasta/internal/mesosclient"
	"github.com/pilgrim2go/paasta/pkg/log"
	"github.com/pilgrim2go/paasta/pkg/metrics"
)

func main() {
	var (
		configPath  string
		poolFilter  string
		region      string
		dryRun      bool
		parallelism int
	)

	cmd := &cobra.Command{
		Use:   "autoscale",
		Short: "Run one tick of the spot-fleet cluster autoscaler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, poolFilter, region, dryRun, parallelism)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "/etc/paasta/autoscale.yaml", "path to the pools config file")
	cmd.Flags().StringVar(&poolFilter, "pool", "", "restrict the tick to a single pool (default: all configured pools)")
	cmd.Flags().StringVar(&region, "region", "", "override the AWS region used for the EC2 client")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log intended actions without mutating fleet capacity or draining slaves")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "number of pools to process concurrently")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, poolFilter, region string, dryRun bool, parallelism int) error {
	logger, err := log.NewProduction()
	if err != nil {
		return fmt.Errorf("autoscale: build logger: %w", err)
	}
	defer logger.Sync()
	ctx = log.IntoContext(ctx, logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return fmt.Errorf("autoscale: load aws config: %w", err)
	}

	metrics.MustRegister(prometheus.DefaultRegisterer)
	awsCfg = prometheusv2.WithPrometheusMetrics(awsCfg, prometheus.DefaultRegisterer)

	fleetClient := fleet.New(ec2.NewFromConfig(awsCfg))
	mesosClient := mesosclient.NewHTTPClient(cfg.MesosMasterURL)
	drainClient := drainclient.NewHTTPClient(cfg.DrainServiceURL)

	view := &cluster.View{Fleet: fleetClient, Mesos: mesosClient}
	terminator := &cluster.Terminator{Fleet: fleetClient, Drain: drainClient}
	spotFleet := &autoscaling.SpotFleet{Fleet: fleetClient, Mesos: mesosClient, View: view, Terminator: terminator}

	registry := autoscaling.NewRegistry()
	spotFleet.Register(registry)

	pools := cfg.Pools
	if poolFilter != "" {
		pools = nil
		for _, p := range cfg.Pools {
			if p.Name == poolFilter {
				pools = append(pools, p)
			}
		}
		if len(pools) == 0 {
			return fmt.Errorf("autoscale: no configured pool named %q", poolFilter)
		}
	}

	resources := make([]cluster.Resource, 0, len(pools))
	for _, p := range pools {
		resources = append(resources, cluster.Resource{
			ID:     p.ResourceID,
			Type:   p.ResourceType,
			Region: p.Region,
			Pool:   p.Name,
		})
	}

	settingsLookup := func(pool string) (cluster.PoolSettings, error) {
		p, err := cfg.Pool(pool)
		if err != nil {
			return cluster.PoolSettings{}, err
		}
		return cluster.PoolSettings{
			DrainTimeoutSeconds: p.DrainTimeoutSeconds,
			TargetUtilization:   p.TargetUtilization,
		}, nil
	}

	loop := &autoscaling.Loop{Registry: registry, Parallelism: parallelism}
	if err := loop.Tick(ctx, resources, settingsLookup, dryRun); err != nil {
		logger.Errorw("autoscale tick completed with pool failures", "error", err)
	}

	return nil
}
