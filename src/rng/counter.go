package rng

import "go.uber.org/atomic"

// Counter is the shared "quantum" value the steppers race on.
//
// A step is a load followed by a separate store, never a read-modify-write, so
// concurrent steppers overwrite each other in whatever order the scheduler
// picks. Go offers no relaxed atomics; plain atomic load/store is the weakest
// legal access and keeps the value out of registers in the tight loops.
// Replacing the step with Add or CompareAndSwap would serialize the writers and
// remove the entropy.
type Counter struct {
	v atomic.Int64
}

func NewCounter() *Counter { return &Counter{} }

// AddAndReduce performs counter = (counter + increment) % modulus.
func (c *Counter) AddAndReduce(increment, modulus int64) {
	c.v.Store((c.v.Load() + increment) % modulus)
}

func (c *Counter) Load() int64 { return c.v.Load() }

func (c *Counter) Store(v int64) { c.v.Store(v) }
