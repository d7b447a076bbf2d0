// Package schematic defines rules, the context they run in, and the tree
// helpers every generator builds on.
//
// A rule mutates the virtual tree and nothing else. Rules run one after the
// other against a single tree; a failing rule stops the chain but leaves
// the mutations of earlier rules in place.
package schematic

import (
	"go.uber.org/zap"

	"github.com/simonhull/roost/internal/logging"
	"github.com/simonhull/roost/internal/tasks"
	"github.com/simonhull/roost/internal/tree"
)

// Rule mutates the tree.
type Rule func(ctx *Context, t *tree.Tree) error

// Context carries what rules need besides the tree.
type Context struct {
	Logger *zap.Logger
	Tasks  *tasks.Scheduler
}

// NewContext returns a context with the given logger (nop when nil) and
// an empty task scheduler.
func NewContext(logger *zap.Logger) *Context {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Context{Logger: logger, Tasks: tasks.NewScheduler()}
}

// Noop leaves the tree unchanged.
func Noop(*Context, *tree.Tree) error { return nil }

// Chain runs rules in order and stops at the first error.
func Chain(rules ...Rule) Rule {
	return func(ctx *Context, t *tree.Tree) error {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if err := r(ctx, t); err != nil {
				return err
			}
		}
		return nil
	}
}

// When returns r if cond holds and Noop otherwise. cond is evaluated once,
// when the rule list is composed.
func When(cond bool, r Rule) Rule {
	if cond {
		return r
	}
	return Noop
}
