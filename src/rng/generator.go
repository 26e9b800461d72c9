package rng

import (
	"sync"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Generator owns the race-derived entropy source: the shared counter, the
// stepper pool racing on it, the sampler reading it and the stopper all of
// them watch.
//
// Stream and Read drive the same sampler and must not be used concurrently;
// share a Generator between goroutines through NewLockedReader.
type Generator struct {
	counter *Counter
	stop    *Stopper
	pool    *Pool
	sampler *Sampler
	log     *zap.SugaredLogger

	emitted   atomic.Uint64
	closeOnce sync.Once
}

func NewGenerator(steppers []Stepper, log *zap.SugaredLogger) (*Generator, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := NewCounter()
	stop := NewStopper()
	pool, err := NewPool(steppers, c, stop, log)
	if err != nil {
		return nil, err
	}
	return &Generator{
		counter: c,
		stop:    stop,
		pool:    pool,
		sampler: NewSampler(c, stop),
		log:     log,
	}, nil
}

// Start launches the steppers. Stream and Read only produce entropy after it.
func (g *Generator) Start() {
	g.pool.Start()
	g.log.Infow("race generator started", "steppers", g.pool.Size())
}

// Stream emits bytes to sink on the calling goroutine until the generator is
// stopped (nil) or sink fails (the sink's error).
func (g *Generator) Stream(sink Sink) error {
	return g.sampler.Run(SinkFunc(func(b byte) error {
		if err := sink.Emit(b); err != nil {
			return err
		}
		g.emitted.Inc()
		return nil
	}))
}

func (g *Generator) Read(p []byte) (int, error) {
	n, err := g.sampler.Read(p)
	g.emitted.Add(uint64(n))
	return n, err
}

// Stop sets the stop flag without waiting. Safe from any goroutine.
func (g *Generator) Stop() bool { return g.stop.Stop() }

// Close stops the generator and waits for every stepper to return.
func (g *Generator) Close() error {
	g.closeOnce.Do(func() {
		g.stop.Stop()
		g.pool.Wait()
		g.stop.Finish()
		g.log.Infow("race generator stopped", "emitted_bytes", g.emitted.Load())
	})
	return nil
}

func (g *Generator) Stopper() *Stopper { return g.stop }

func (g *Generator) Counter() *Counter { return g.counter }

// Emitted is the number of bytes handed out by Stream and Read.
func (g *Generator) Emitted() uint64 { return g.emitted.Load() }
