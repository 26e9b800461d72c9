package rng

import (
	"os"
	"os/signal"
	"sync"
)

// NotifyInterrupt stops s when the process receives an interrupt (Ctrl-C).
// The delivery goroutine only calls Stop; joining workers is left to the
// caller. Further interrupts are no-ops. The returned func unregisters the
// handler and waits for the goroutine to exit.
func NotifyInterrupt(s *Stopper) (release func()) {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, os.Interrupt)

	go func() {
		defer close(done)
		for range ch {
			s.Stop()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(ch)
			<-done
		})
	}
}
