package executors

import (
	"github.com/yurifrl/spfmerge/pkg/plan"
)

// Apply runs the steps of p in order. A failing step is recorded and the
// remaining steps still run; merges read whatever panel file is on disk.
func (e *Executor) Apply(p *plan.Plan) *Report {
	report := &Report{}
	for _, step := range p.Steps {
		e.logger.Info("running step", "step", step)
		entry := e.run(step)
		if entry.Status == Failed {
			e.logger.Error("step failed", "step", step, "error", entry.Err)
		}
		report.add(entry)
	}
	return report
}

func (e *Executor) run(step plan.Step) Entry {
	entry := Entry{Step: step}

	ind, err := indicator(step)
	if err != nil {
		entry.Status, entry.Err = Failed, err
		return entry
	}
	series, err := ind.Series(e.config)
	if err != nil {
		entry.Status, entry.Err = Failed, err
		return entry
	}

	if step.IsMerge() {
		entry.Output = series.Merged
		n, err := e.merger.Run(e.config.PanelPath(series), series)
		if err != nil {
			entry.Status, entry.Err = Failed, err
			return entry
		}
		entry.Rows = n
		if n == 0 {
			entry.Status = Empty
		}
		return entry
	}

	entry.Output = e.config.PanelPath(series)
	pnl, err := e.processor.Process(ind)
	if err != nil {
		entry.Status, entry.Err = Failed, err
		return entry
	}
	entry.Rows = pnl.Len()
	if pnl.Empty() {
		entry.Status = Empty
	}
	return entry
}
