// Command randomd serves race-derived (or serial hardware) random bytes over
// HTTP.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lost-woods/racerandom/src/api"
	"github.com/lost-woods/racerandom/src/config"
	"github.com/lost-woods/racerandom/src/rng"
	"github.com/lost-woods/racerandom/src/server"
)

var (
	zapLogger, _ = zap.NewProduction()
	log          = zapLogger.Sugar()
)

func openSource(cfg config.Config) (io.ReadCloser, *rng.Health, api.Emitter, error) {
	if cfg.Source == config.SourceSerial {
		p, h, err := rng.OpenSerial(cfg.Serial)
		return p, h, nil, err
	}

	gen, err := rng.NewGenerator(rng.DefaultSteppers(), log)
	if err != nil {
		return nil, nil, nil, err
	}
	gen.Start()

	h := rng.NewHealth()
	if err := rng.HealthCheck(gen, h); err != nil {
		gen.Close()
		return nil, h, nil, err
	}
	return gen, h, gen, nil
}

func main() {
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	src, health, stats, err := openSource(cfg)
	if err != nil {
		log.Fatalw("entropy source failed startup check", "source", cfg.Source, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, rng.NewLockedReader(src), health, stats, log)
	runErr := srv.Run(ctx)
	if err := multierr.Append(runErr, src.Close()); err != nil {
		log.Errorw("randomd exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("randomd stopped")
}
