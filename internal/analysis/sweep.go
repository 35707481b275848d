package analysis

import (
	"context"
	"fmt"

	"popsim/internal/config"
	"popsim/internal/experiment"
)

// SweepPoint records one summary-metric value for one parameter setting.
type SweepPoint struct {
	Param float64
	Value float64
}

// ParameterSweep varies one model parameter over an even grid, runs a full
// simulation per value, and records the named metric. It reports how an
// emergent statistic responds to a parameter; it does no fitting.
func ParameterSweep(
	ctx context.Context,
	base *config.Config,
	registry *experiment.Registry,
	paramName string,
	paramMin, paramMax float64,
	paramSteps int,
	metricName string,
) ([]SweepPoint, error) {
	if paramSteps < 2 {
		paramSteps = 2
	}
	step := (paramMax - paramMin) / float64(paramSteps-1)

	points := make([]SweepPoint, 0, paramSteps)
	for i := 0; i < paramSteps; i++ {
		param := paramMin + float64(i)*step

		cfg := *base
		if err := setParam(&cfg, paramName, param); err != nil {
			return nil, err
		}

		exp := experiment.New(&cfg)
		if err := exp.Setup(registry); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", paramName, param, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s=%g: %w", paramName, param, err)
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return nil, fmt.Errorf("unknown metric: %s", metricName)
		}
		points = append(points, SweepPoint{Param: param, Value: val})
	}
	return points, nil
}

func setParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case "alpha":
		cfg.Alpha = value
	case "p_down":
		cfg.PDown = value
	case "gamma":
		cfg.Gamma = value
	case "skew":
		cfg.Skew = value
	case "force":
		cfg.Force = value
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}
