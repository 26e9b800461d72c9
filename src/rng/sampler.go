package rng

import (
	"errors"
	"runtime"
)

// ErrStopped is returned by Read once the generator has been asked to stop.
var ErrStopped = errors.New("race generator stopped")

// Quantum is anything the sampler can poll. *Counter is the live source;
// tests substitute deterministic sequences.
type Quantum interface {
	Load() int64
}

// Sampler turns the parity of successive quantum reads into bytes.
// It is not safe for concurrent use; wrap it in a LockedReader to share it.
type Sampler struct {
	q      Quantum
	stop   *Stopper
	packer Packer
}

func NewSampler(q Quantum, stop *Stopper) *Sampler {
	return &Sampler{q: q, stop: stop}
}

func (s *Sampler) sample() (byte, bool) {
	return s.packer.Push(byte(s.q.Load() & 1))
}

// Run polls as fast as it can on the calling goroutine and emits every
// completed byte to sink, until the stop flag is set or sink fails.
// Bits of an unfinished byte are dropped on stop.
func (s *Sampler) Run(sink Sink) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer s.packer.Reset()

	for !s.stop.Stopping() {
		b, ok := s.sample()
		if !ok {
			continue
		}
		if err := sink.Emit(b); err != nil {
			return err
		}
	}
	return nil
}

// Read fills p with sampled bytes. If the stop flag is set mid-read, the
// bytes completed so far are returned with ErrStopped.
func (s *Sampler) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.stop.Stopping() {
			s.packer.Reset()
			return n, ErrStopped
		}
		if b, ok := s.sample(); ok {
			p[n] = b
			n++
		}
	}
	return n, nil
}
