package generator

import (
	"context"
	"errors"
	"fmt"
)

// Transaction runs operations and remembers them so a failure can undo
// everything that already ran.
type Transaction struct {
	executed  []Operation
	committed bool
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{
		executed: make([]Operation, 0),
	}
}

// Run executes op as part of the transaction.
func (t *Transaction) Run(ctx context.Context, op Operation) error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}
	if err := op.Execute(ctx); err != nil {
		return err
	}
	t.executed = append(t.executed, op)
	return nil
}

// Commit marks the transaction as finished. Later Rollback calls are no-ops.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}
	t.committed = true
	return nil
}

// Rollback undoes executed operations in reverse order. Safe to defer.
func (t *Transaction) Rollback(ctx context.Context) error {
	if t.committed {
		return nil
	}

	var errs []error
	for i := len(t.executed) - 1; i >= 0; i-- {
		u, ok := t.executed[i].(Undoer)
		if !ok {
			continue
		}
		if err := u.Undo(ctx); err != nil {
			errs = append(errs, fmt.Errorf("undo %q: %w", t.executed[i].Description(), err))
		}
	}
	t.executed = t.executed[:0]
	return errors.Join(errs...)
}
