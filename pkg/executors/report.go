package executors

import (
	"errors"
	"fmt"

	"github.com/yurifrl/spfmerge/pkg/plan"
)

// Status is the outcome of one step.
type Status int

const (
	Done Status = iota
	// Empty means the step found nothing to write.
	Empty
	Failed
)

func (s Status) String() string {
	switch s {
	case Done:
		return "done"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Entry is the outcome of a single step.
type Entry struct {
	Step   plan.Step
	Status Status
	Rows   int
	Output string
	Err    error
}

// Report collects the entries of a run in step order.
type Report struct {
	Items []Entry
}

func (r *Report) add(e Entry) {
	r.Items = append(r.Items, e)
}

// FailedCount returns how many steps failed.
func (r *Report) FailedCount() int {
	n := 0
	for _, e := range r.Items {
		if e.Status == Failed {
			n++
		}
	}
	return n
}

// Err joins the errors of every failed step, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, e := range r.Items {
		if e.Status == Failed {
			errs = append(errs, fmt.Errorf("%s: %w", e.Step, e.Err))
		}
	}
	return errors.Join(errs...)
}
