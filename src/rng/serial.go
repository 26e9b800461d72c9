package rng

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// SerialConfig locates a hardware RNG attached as a serial device.
type SerialConfig struct {
	Device      string        `env:"DEVICE_NAME"`
	Baud        int           `env:"BAUD_RATE"    envDefault:"115200"`
	ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"1s"`
}

// OpenSerial opens the device and runs the startup health check on it.
func OpenSerial(cfg SerialConfig) (io.ReadCloser, *Health, error) {
	if cfg.Device == "" {
		return nil, nil, errors.New("SERIAL_DEVICE_NAME is required for the serial source")
	}
	if cfg.Baud <= 0 {
		return nil, nil, fmt.Errorf("invalid SERIAL_BAUD_RATE: %d", cfg.Baud)
	}
	if cfg.ReadTimeout < 0 {
		return nil, nil, fmt.Errorf("invalid SERIAL_READ_TIMEOUT: %s", cfg.ReadTimeout)
	}

	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}

	h := NewHealth()
	if err := HealthCheck(p, h); err != nil {
		p.Close()
		return nil, h, err
	}
	return p, h, nil
}
