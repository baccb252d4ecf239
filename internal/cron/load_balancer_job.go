package cron

import (
	"context"
	"fmt"

	"github.com/Varun984/Sparkathon-by-Walmart/internal/loadbalancer"
	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

const LoadBalancerJobName = "load-balancer-scan"

type scanner interface {
	Scan(ctx context.Context) (*loadbalancer.ScanReport, error)
}

type LoadBalancerJobParams struct {
	Logger   *logger.Logger
	Balancer scanner
}

// NewLoadBalancerJob builds the job recording relocations for every
// inventory found above its alert threshold.
func NewLoadBalancerJob(params LoadBalancerJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Balancer == nil {
		return nil, fmt.Errorf("load balancer required")
	}
	return &loadBalancerJob{logg: params.Logger, balancer: params.Balancer}, nil
}

type loadBalancerJob struct {
	logg     *logger.Logger
	balancer scanner
}

func (j *loadBalancerJob) Name() string { return LoadBalancerJobName }

func (j *loadBalancerJob) Run(ctx context.Context) error {
	report, err := j.balancer.Scan(ctx)
	if report != nil {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"breached":    len(report.Breached),
			"unplaced":    len(report.Unplaced),
			"relocations": len(report.Relocations),
		}), "load balancer scan finished")
	}
	if err != nil {
		return fmt.Errorf("load balancer scan: %w", err)
	}
	return nil
}
