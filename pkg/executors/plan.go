package executors

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/spfmerge/pkg/plan"
)

// Change describes what a step will read and write.
type Change struct {
	Step    plan.Step
	Inputs  []string
	Output  string
	Missing []string
}

func (c Change) Ready() bool {
	return len(c.Missing) == 0
}

// Plan resolves the inputs and outputs of every step without running it.
// An input produced by an earlier step of p counts as available.
func (e *Executor) Plan(p *plan.Plan) ([]Change, error) {
	produced := make(map[string]bool)
	changes := make([]Change, 0, len(p.Steps))
	for _, step := range p.Steps {
		ind, err := indicator(step)
		if err != nil {
			return nil, err
		}
		series, err := ind.Series(e.config)
		if err != nil {
			return nil, err
		}

		c := Change{Step: step}
		if step.IsMerge() {
			c.Inputs = []string{e.config.PanelPath(series), series.Series}
			c.Output = series.Merged
		} else {
			c.Inputs = []string{e.config.ForecastsDir}
			c.Output = e.config.PanelPath(series)
		}
		for _, in := range c.Inputs {
			if produced[in] {
				continue
			}
			if _, err := os.Stat(in); err != nil {
				c.Missing = append(c.Missing, in)
			}
		}
		produced[c.Output] = true
		changes = append(changes, c)
	}
	return changes, nil
}

// Preview prints the resolved plan to w.
func (e *Executor) Preview(w io.Writer, p *plan.Plan) error {
	changes, err := e.Plan(p)
	if err != nil {
		return err
	}

	readyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // green
	missingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")) // red
	pathStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))    // gray

	for i, c := range changes {
		marker := readyStyle.Render("+")
		if !c.Ready() {
			marker = missingStyle.Render("!")
		}
		fmt.Fprintf(w, "%s [%d] %-18s -> %s\n", marker, i+1, c.Step, c.Output)
		for _, in := range c.Inputs {
			fmt.Fprintf(w, "      %s\n", pathStyle.Render("< "+in))
		}
		for _, m := range c.Missing {
			fmt.Fprintf(w, "      %s\n", missingStyle.Render("missing: "+m))
		}
	}

	ready := 0
	for _, c := range changes {
		if c.Ready() {
			ready++
		}
	}
	fmt.Fprintf(w, "\nPlan: %d step(s), %d ready, %d with missing inputs\n", len(changes), ready, len(changes)-ready)
	return nil
}
