// Command random writes an endless stream of race-derived random bytes to
// stdout, like `cat /dev/random`, until interrupted with Ctrl-C.
package main

import (
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lost-woods/racerandom/src/rng"
)

func main() {
	// Production config logs to stderr; stdout carries the byte stream.
	zapLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	log := zapLogger.Sugar()
	defer log.Sync() //nolint:errcheck

	gen, err := rng.NewGenerator(rng.DefaultSteppers(), log)
	if err != nil {
		log.Fatal(err)
	}

	// Installed before any stepper exists so an early Ctrl-C is never lost.
	release := rng.NotifyInterrupt(gen.Stopper())
	defer release()

	gen.Start()
	streamErr := gen.Stream(rng.NewWriterSink(os.Stdout))
	if err := multierr.Append(streamErr, gen.Close()); err != nil {
		log.Errorw("stream terminated", "error", err)
		release()
		log.Sync() //nolint:errcheck
		os.Exit(1)
	}
}
