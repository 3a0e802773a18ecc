package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Step string

const (
	Inflation         Step = "inflation"
	GDP               Step = "gdp"
	Unemployment      Step = "unemployment"
	MergeInflation    Step = "merge-inflation"
	MergeGDP          Step = "merge-gdp"
	MergeUnemployment Step = "merge-unemployment"
)

// DefaultSteps is the full run: panels first, then the merges that read them.
var DefaultSteps = []Step{
	Inflation,
	GDP,
	Unemployment,
	MergeInflation,
	MergeGDP,
	MergeUnemployment,
}

func (s Step) Valid() bool {
	for _, known := range DefaultSteps {
		if s == known {
			return true
		}
	}
	return false
}

// IsMerge reports whether s merges a panel with a realized series.
func (s Step) IsMerge() bool {
	return s == MergeInflation || s == MergeGDP || s == MergeUnemployment
}

type Plan struct {
	Steps []Step `yaml:"steps"`
}

func Default() *Plan {
	steps := make([]Step, len(DefaultSteps))
	copy(steps, DefaultSteps)
	return &Plan{Steps: steps}
}

func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("plan has no steps")
	}
	seen := make(map[Step]bool, len(p.Steps))
	for _, s := range p.Steps {
		if !s.Valid() {
			return fmt.Errorf("unknown step %q", s)
		}
		if seen[s] {
			return fmt.Errorf("step %q listed twice", s)
		}
		seen[s] = true
	}
	return nil
}
