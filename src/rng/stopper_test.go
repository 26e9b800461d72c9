package rng_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lost-woods/racerandom/src/rng"
)

func TestStopper_Lifecycle(t *testing.T) {
	s := rng.NewStopper()
	require.Equal(t, rng.Running, s.State())
	require.False(t, s.Stopping())

	require.False(t, s.Finish(), "finish before stop must be a no-op")
	require.Equal(t, rng.Running, s.State())

	require.True(t, s.Stop())
	require.True(t, s.Stopping())
	require.Equal(t, rng.Stopping, s.State())

	require.False(t, s.Stop(), "second stop must be a no-op")
	require.Equal(t, rng.Stopping, s.State())

	require.True(t, s.Finish())
	require.Equal(t, rng.Stopped, s.State())
	require.False(t, s.Stop())
	require.Equal(t, rng.Stopped, s.State())
	require.Equal(t, "stopped", s.State().String())
}

func TestStopper_ConcurrentStopTransitionsOnce(t *testing.T) {
	s := rng.NewStopper()

	const callers = 64
	var wg sync.WaitGroup
	wins := make(chan bool, callers)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			wins <- s.Stop()
		}()
	}
	wg.Wait()
	close(wins)

	n := 0
	for won := range wins {
		if won {
			n++
		}
	}
	require.Equal(t, 1, n)
	require.True(t, s.Stopping())
}
