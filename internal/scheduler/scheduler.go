// Package scheduler groups print jobs into batches that fit a printer's volume
// and item limits, highest priority first.
package scheduler

import (
	"fmt"
	"math"
	"sort"
)

// Job is a single item waiting to be printed. Priority 1 is the most urgent.
type Job struct {
	ID        string  `json:"id"`
	Volume    float64 `json:"volume"`
	Priority  int     `json:"priority"`
	PrintTime int     `json:"printTime"`
}

// Constraints describes what one printer batch can hold.
type Constraints struct {
	MaxVolume float64 `json:"maxVolume"`
	MaxItems  int     `json:"maxItems"`
}

// Plan is the print order and the time it takes. A batch takes as long as its
// slowest job.
type Plan struct {
	Order     []string   `json:"order"`
	TotalTime int        `json:"totalTime"`
	Groups    [][]string `json:"groups"`
}

// Optimize batches jobs greedily. Jobs are ordered by priority and then by
// longest print time; each batch takes every pending job that still fits. A
// job that fits no batch on its own is printed alone.
func Optimize(jobs []Job, constraints Constraints) (Plan, error) {
	if err := validate(jobs, constraints); err != nil {
		return Plan{}, err
	}

	pending := make([]Job, len(jobs))
	copy(pending, jobs)
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority < pending[j].Priority
		}
		return pending[i].PrintTime > pending[j].PrintTime
	})

	plan := Plan{
		Order:  make([]string, 0, len(jobs)),
		Groups: make([][]string, 0),
	}

	for len(pending) > 0 {
		var (
			group  []Job
			volume float64
			rest   = pending[:0:0]
		)
		for _, job := range pending {
			if len(group) < constraints.MaxItems && volume+job.Volume <= constraints.MaxVolume {
				group = append(group, job)
				volume += job.Volume
				continue
			}
			rest = append(rest, job)
		}

		if len(group) == 0 {
			group, rest = pending[:1], pending[1:]
		}

		ids := make([]string, 0, len(group))
		slowest := 0
		for _, job := range group {
			ids = append(ids, job.ID)
			slowest = max(slowest, job.PrintTime)
		}
		plan.Order = append(plan.Order, ids...)
		plan.Groups = append(plan.Groups, ids)
		plan.TotalTime += slowest

		pending = rest
	}

	return plan, nil
}

func validate(jobs []Job, constraints Constraints) error {
	if !(constraints.MaxVolume > 0) || math.IsInf(constraints.MaxVolume, 0) || constraints.MaxItems <= 0 {
		return fmt.Errorf("%w: max volume %v, max items %d", ErrInvalidConstraints, constraints.MaxVolume, constraints.MaxItems)
	}

	seen := make(map[string]struct{}, len(jobs))
	for i, job := range jobs {
		if job.ID == "" {
			return fmt.Errorf("%w: job %d has no id", ErrInvalidJob, i)
		}
		if _, dup := seen[job.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidJob, job.ID)
		}
		seen[job.ID] = struct{}{}
		if job.Volume < 0 || math.IsNaN(job.Volume) || job.PrintTime < 0 {
			return fmt.Errorf("%w: job %q", ErrInvalidJob, job.ID)
		}
	}
	return nil
}
