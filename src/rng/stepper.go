package rng

import (
	"errors"
	"fmt"
	"runtime"
)

// DefaultModulus is the prime every default stepper reduces by.
const DefaultModulus int64 = 2027

var defaultIncrements = [...]int64{
	73, 79, 83, 89, 97, 101, 103, 107,
	109, 113, 127, 131, 137, 139, 149, 151,
}

// Stepper describes one racing worker.
type Stepper struct {
	Increment int64
	Modulus   int64
}

// DefaultSteppers returns the 16 fixed workers: distinct prime increments,
// shared prime modulus.
func DefaultSteppers() []Stepper {
	out := make([]Stepper, len(defaultIncrements))
	for i, inc := range defaultIncrements {
		out[i] = Stepper{Increment: inc, Modulus: DefaultModulus}
	}
	return out
}

func (s Stepper) Next(v int64) int64 { return (v + s.Increment) % s.Modulus }

// Run steps c until stop reports stopping. The goroutine is pinned to its own
// OS thread so the workers are scheduled by the kernel, not cooperatively.
func (s Stepper) Run(c *Counter, stop *Stopper) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for !stop.Stopping() {
		c.AddAndReduce(s.Increment, s.Modulus)
	}
}

// ValidateSteppers rejects descriptor sets that would overflow, never reduce,
// or duplicate another worker's stepping.
func ValidateSteppers(steppers []Stepper) error {
	if len(steppers) == 0 {
		return errors.New("at least one stepper is required")
	}

	seen := make(map[int64]struct{}, len(steppers))
	for i, s := range steppers {
		if s.Increment <= 0 {
			return fmt.Errorf("stepper %d: increment must be positive, got %d", i, s.Increment)
		}
		if s.Modulus <= 1 {
			return fmt.Errorf("stepper %d: modulus must be greater than 1, got %d", i, s.Modulus)
		}
		// Keeps counter+increment far away from int64 overflow.
		if s.Increment > 1<<31 || s.Modulus > 1<<31 {
			return fmt.Errorf("stepper %d: increment and modulus must not exceed 2^31", i)
		}
		if _, dup := seen[s.Increment]; dup {
			return fmt.Errorf("stepper %d: duplicate increment %d", i, s.Increment)
		}
		seen[s.Increment] = struct{}{}
	}
	return nil
}
