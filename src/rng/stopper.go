package rng

import "go.uber.org/atomic"

type State int32

const (
	Running State = iota
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stopper is the cooperative stop flag shared by the steppers and the sampler,
// plus the Running -> Stopping -> Stopped lifecycle around it.
type Stopper struct {
	state atomic.Int32
	flag  atomic.Bool
}

func NewStopper() *Stopper { return &Stopper{} }

// Stop requests shutdown. Only the first call has an effect; it reports
// whether this call performed the transition.
func (s *Stopper) Stop() bool {
	if !s.state.CompareAndSwap(int32(Running), int32(Stopping)) {
		return false
	}
	s.flag.Store(true)
	return true
}

// Stopping is checked once per loop iteration by every worker.
func (s *Stopper) Stopping() bool { return s.flag.Load() }

// Finish marks the shutdown complete. It is a no-op unless Stop was called.
func (s *Stopper) Finish() bool {
	return s.state.CompareAndSwap(int32(Stopping), int32(Stopped))
}

func (s *Stopper) State() State { return State(s.state.Load()) }
