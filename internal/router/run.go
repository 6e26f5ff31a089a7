package router

import (
	"context"

	"go.uber.org/zap"

	"navsync/internal/location"
)

// Source delivers fragment changes in the order they happened.
type Source interface {
	Changes() <-chan location.Change
}

// Run performs the startup dispatch if it has not run yet, then handles
// changes from src until ctx is done or src closes its channel. Functions
// posted with Do run on the same goroutine. Failures inside a dispatch are
// logged and never stop the loop.
func (r *Router) Run(ctx context.Context, src Source) error {
	if !r.initialized {
		r.safely("initialize", func() error {
			_, err := r.Initialize()
			return err
		})
	}

	changes := src.Changes()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-r.tasks:
			r.safely("task", func() error {
				fn()
				return nil
			})
		case c, ok := <-changes:
			if !ok {
				r.logger.Info("change source closed")
				return nil
			}
			r.safely("change "+c.ID, func() error {
				_, err := r.HandleChange(c)
				return err
			})
		}
	}
}

// Do runs fn on the Run goroutine and waits until it has been picked up.
func (r *Router) Do(ctx context.Context, fn func()) error {
	select {
	case r.tasks <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// safely runs fn, logging its error or panic instead of propagating it.
func (r *Router) safely(op string, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("dispatch panicked",
				zap.String("op", op),
				zap.Any("panic", rec),
				zap.Stack("stack"))
		}
	}()
	if err := fn(); err != nil {
		r.logger.Warn("dispatch failed", zap.String("op", op), zap.Error(err))
	}
}
