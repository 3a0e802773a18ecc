package executors

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/spfmerge/pkg/config"
	"github.com/yurifrl/spfmerge/pkg/merge"
	"github.com/yurifrl/spfmerge/pkg/plan"
	"github.com/yurifrl/spfmerge/pkg/service"
)

type Executor struct {
	logger    *log.Logger
	config    *config.Config
	processor *service.Processor
	merger    *merge.Merger
}

func New(logger *log.Logger, config *config.Config) *Executor {
	return &Executor{
		logger:    logger,
		config:    config,
		processor: service.NewProcessor(config, logger),
		merger:    merge.New(logger),
	}
}

// indicator maps both the panel step and the merge step of an indicator.
func indicator(step plan.Step) (service.Indicator, error) {
	switch step {
	case plan.Inflation, plan.MergeInflation:
		return service.Inflation, nil
	case plan.GDP, plan.MergeGDP:
		return service.GDP, nil
	case plan.Unemployment, plan.MergeUnemployment:
		return service.Unemployment, nil
	default:
		return "", fmt.Errorf("unknown step %q", step)
	}
}
