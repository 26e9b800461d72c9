package rng

import (
	"sync"

	"go.uber.org/zap"
)

// Pool runs one goroutine per Stepper against a shared Counter.
type Pool struct {
	steppers []Stepper
	counter  *Counter
	stop     *Stopper
	log      *zap.SugaredLogger

	wg      sync.WaitGroup
	startMu sync.Mutex
	started bool
}

func NewPool(steppers []Stepper, c *Counter, stop *Stopper, log *zap.SugaredLogger) (*Pool, error) {
	if err := ValidateSteppers(steppers); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pool{
		steppers: append([]Stepper(nil), steppers...),
		counter:  c,
		stop:     stop,
		log:      log,
	}, nil
}

// Start launches every stepper and returns once all of them are running.
// Calling it again is a no-op.
func (p *Pool) Start() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.started {
		return
	}
	p.started = true

	var ready sync.WaitGroup
	ready.Add(len(p.steppers))
	p.wg.Add(len(p.steppers))
	for _, s := range p.steppers {
		go func(s Stepper) {
			defer p.wg.Done()
			ready.Done()
			s.Run(p.counter, p.stop)
		}(s)
	}
	ready.Wait()
	p.log.Debugw("steppers running", "count", len(p.steppers))
}

// Wait blocks until every stepper has observed the stop flag and returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) Size() int { return len(p.steppers) }
