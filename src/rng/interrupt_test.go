//go:build unix

package rng_test

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lost-woods/racerandom/src/rng"
)

func TestNotifyInterrupt_StopsGenerator(t *testing.T) {
	defer goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("os/signal.signal_recv"),
		goleak.IgnoreTopFunction("os/signal.loop"),
	)

	gen := newGenerator(t)
	release := rng.NotifyInterrupt(gen.Stopper())
	defer release()
	gen.Start()

	done := make(chan error, 1)
	go func() {
		done <- gen.Stream(rng.SinkFunc(func(byte) error { return nil }))
	}()
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
	start := time.Now()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		gen.Close()
		t.Fatal("sampler did not observe the interrupt within 2s")
	}
	require.NoError(t, gen.Close())
	require.Less(t, time.Since(start), 2*time.Second)
	require.Equal(t, rng.Stopped, gen.Stopper().State())

	// A repeated interrupt while the handler is installed changes nothing.
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, rng.Stopped, gen.Stopper().State())

	release()
}
