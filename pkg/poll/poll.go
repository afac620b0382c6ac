// Package poll implements the fixed-interval, deadline-bounded waiting the
// bootstrap flow uses for repository visibility, branch creation and Pages
// activation.
package poll

import (
	"errors"
	"fmt"
	"time"
)

// ErrDeadline is returned by Wait when the condition never held before the
// policy deadline passed.
var ErrDeadline = errors.New("deadline exceeded")

// Condition reports whether the polled state has been reached. Returning an
// error aborts the wait immediately.
type Condition func() (bool, error)

// Policy bounds a polling loop: a fixed sleep between attempts and a
// wall-clock deadline for the whole wait.
type Policy struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultPolicy returns the polling policy used when nothing overrides it.
func DefaultPolicy() Policy {
	return Policy{
		Interval: 3 * time.Second,
		Timeout:  120 * time.Second,
	}
}

// Validate checks that the policy is usable.
func (p Policy) Validate() error {
	if p.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", p.Interval)
	}
	if p.Timeout < p.Interval {
		return fmt.Errorf("poll timeout %s must be at least the interval %s", p.Timeout, p.Interval)
	}
	return nil
}

// Wait runs cond until it reports true, returns an error, or the deadline
// passes. The first attempt runs immediately; ErrDeadline is returned once
// no further attempt fits before the deadline.
func (p Policy) Wait(cond Condition) error {
	if err := p.Validate(); err != nil {
		return err
	}

	deadline := time.Now().Add(p.Timeout)
	for {
		ok, err := cond()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().Add(p.Interval).After(deadline) {
			return ErrDeadline
		}
		time.Sleep(p.Interval)
	}
}
