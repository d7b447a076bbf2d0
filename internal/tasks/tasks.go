// Package tasks schedules work that must run after the tree is committed,
// such as installing npm packages.
package tasks

import (
	"context"
	"fmt"

	"github.com/simonhull/roost/internal/exec"
)

// Task is deferred work a schematic asks the host to run after commit.
type Task interface {
	// Name identifies the task; a scheduler holds at most one task per name.
	Name() string
	// Description is a one-line summary for output.
	Description() string
	// Run performs the task.
	Run(ctx context.Context, e *exec.Executor) error
}

// Scheduler collects tasks in the order they were added.
type Scheduler struct {
	tasks []Task
	names map[string]bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{names: make(map[string]bool)}
}

// Add schedules t. Adding a second task with the same name is an error.
func (s *Scheduler) Add(t Task) error {
	if t == nil {
		return fmt.Errorf("cannot schedule nil task")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("cannot schedule task with empty name")
	}
	if s.names[name] {
		return fmt.Errorf("task '%s' is already scheduled", name)
	}
	s.names[name] = true
	s.tasks = append(s.tasks, t)
	return nil
}

// Tasks returns the scheduled tasks in order.
func (s *Scheduler) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of scheduled tasks.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}

// RunAll runs every task in order and stops at the first failure.
func (s *Scheduler) RunAll(ctx context.Context, e *exec.Executor) error {
	for _, t := range s.tasks {
		if err := t.Run(ctx, e); err != nil {
			return fmt.Errorf("task %s: %w", t.Name(), err)
		}
	}
	return nil
}
