package rng_test

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/lost-woods/racerandom/src/rng"
)

// The race needs steppers running in parallel with the sampler; on a single
// CPU the sampler sees the counter frozen for a whole scheduler slice.
func requireParallelism(t *testing.T) {
	t.Helper()
	if runtime.NumCPU() < 2 {
		t.Skip("race-derived entropy needs at least 2 CPUs")
	}
}

func newGenerator(t *testing.T) *rng.Generator {
	t.Helper()
	gen, err := rng.NewGenerator(rng.DefaultSteppers(), zap.NewNop().Sugar())
	require.NoError(t, err)
	return gen
}

func TestGenerator_CloseJoinsEveryStepper(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := newGenerator(t)
	gen.Start()

	done := make(chan error, 1)
	go func() {
		done <- gen.Stream(rng.SinkFunc(func(byte) error { return nil }))
	}()
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	require.True(t, gen.Stop())
	require.NoError(t, <-done)
	require.NoError(t, gen.Close())
	require.Less(t, time.Since(start), 2*time.Second)

	require.Equal(t, rng.Stopped, gen.Stopper().State())
	require.False(t, gen.Stop())
	require.NoError(t, gen.Close(), "close is idempotent")
}

func TestGenerator_ReadAfterCloseReportsStopped(t *testing.T) {
	defer goleak.VerifyNone(t)

	gen := newGenerator(t)
	gen.Start()
	require.NoError(t, gen.Close())

	n, err := gen.Read(make([]byte, 4))
	require.ErrorIs(t, err, rng.ErrStopped)
	require.Zero(t, n)
}

func TestGenerator_CountsEmittedBytes(t *testing.T) {
	gen := newGenerator(t)
	gen.Start()
	defer gen.Close()

	_, err := gen.Read(make([]byte, 100))
	require.NoError(t, err)
	require.Equal(t, uint64(100), gen.Emitted())
}

func TestGenerator_BitBalance(t *testing.T) {
	requireParallelism(t)

	gen := newGenerator(t)
	gen.Start()
	defer gen.Close()

	// Spread the samples out a little so each bit reflects fresh racing
	// rather than one stretch of identical reads.
	const samples = 20_000
	c := gen.Counter()
	ones := 0
	for i := 0; i < samples; i++ {
		for start := time.Now(); time.Since(start) < time.Microsecond; {
		}
		ones += int(c.Load() & 1)
	}

	ratio := float64(ones) / samples
	if ratio < 0.4 || ratio > 0.6 {
		t.Fatalf("1-bit fraction %.3f over %d samples outside [0.4, 0.6]", ratio, samples)
	}
}

func TestGenerator_IndependentRunsDiffer(t *testing.T) {
	requireParallelism(t)

	first := func() []byte {
		gen := newGenerator(t)
		gen.Start()
		defer gen.Close()

		buf := make([]byte, 1000)
		_, err := gen.Read(buf)
		require.NoError(t, err)
		return buf
	}

	a, b := first(), first()
	if bytes.Equal(a, b) {
		t.Fatalf("two independent runs produced the same %d bytes; the race has been optimized away", len(a))
	}
}

func TestGenerator_PassesHealthCheck(t *testing.T) {
	requireParallelism(t)

	gen := newGenerator(t)
	gen.Start()
	defer gen.Close()

	h := rng.NewHealth()
	require.NoError(t, rng.HealthCheck(gen, h))
	ok, msg, _ := h.Snapshot()
	require.True(t, ok, msg)
}
