// Package workflow sequences the multi-service operations no single
// service can perform atomically.
package workflow

import (
	"context"
	"errors"
	"fmt"
)

// Step is one forward action of a workflow together with the action
// that undoes it if a later step fails. Compensate is nil when there
// is nothing to undo.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga executes steps in order. When a step fails, the compensating
// actions of every step that already committed run in reverse order
// so the services end up agreeing again; compensation failures are
// joined onto the returned error.
type Saga struct {
	name  string
	steps []Step
}

func NewSaga(name string, steps ...Step) *Saga {
	return &Saga{name: name, steps: steps}
}

func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		err := step.Run(ctx)
		if err == nil {
			continue
		}
		err = fmt.Errorf("%s: %s: %w", s.name, step.Name, err)
		for j := i - 1; j >= 0; j-- {
			committed := s.steps[j]
			if committed.Compensate == nil {
				continue
			}
			if cerr := committed.Compensate(ctx); cerr != nil {
				err = errors.Join(err, fmt.Errorf("%s: compensating %s: %w", s.name, committed.Name, cerr))
			}
		}
		return err
	}
	return nil
}
