package rng

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"sync"
	"time"
)

const (
	healthSampleBytes = 256
	// 20 identical 32-bit samples in a row never happens on a live source.
	maxRepeats32 = 20
	minOnesRatio = 0.4
	maxOnesRatio = 0.6
)

// Health is the last known state of an entropy source, shared between the
// background checker and request handlers.
type Health struct {
	mu            sync.RWMutex
	ok            bool
	lastErr       string
	lastCheckedAt time.Time
	lastSample32  uint32
	repeatCount32 int
}

func NewHealth() *Health { return &Health{} }

func (h *Health) Set(ok bool, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ok = ok
	h.lastErr = errMsg
	h.lastCheckedAt = time.Now()
}

func (h *Health) Snapshot() (ok bool, errMsg string, t time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ok, h.lastErr, h.lastCheckedAt
}

// OnesRatio is the fraction of set bits in buf.
func OnesRatio(buf []byte) float64 {
	if len(buf) == 0 {
		return 0
	}
	ones := 0
	for _, b := range buf {
		ones += bits.OnesCount8(b)
	}
	return float64(ones) / float64(len(buf)*8)
}

// CheckSample runs sanity checks over one sample. It cannot prove
// randomness; it catches a source whose race has collapsed (all workers
// stalled, or stepping serialized into a fixed pattern).
func CheckSample(buf []byte) error {
	if len(buf) == 0 {
		return errors.New("empty sample")
	}

	allSame := true
	for _, b := range buf[1:] {
		if b != buf[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("source appears stuck (all sampled bytes identical)")
	}

	if words := len(buf) / 4; words > 1 {
		repeats := 0
		prev := binary.BigEndian.Uint32(buf)
		for i := 1; i < words; i++ {
			w := binary.BigEndian.Uint32(buf[i*4:])
			if w == prev {
				repeats++
			}
			prev = w
		}
		if repeats > (words-1)*3/4 {
			return errors.New("source appears stuck (32-bit words repeating excessively)")
		}
	}

	distinct := make(map[byte]struct{}, 256)
	for _, b := range buf {
		distinct[b] = struct{}{}
	}
	if len(distinct) < 8 {
		return fmt.Errorf("sample has too few distinct byte values (%d); suspicious", len(distinct))
	}

	if r := OnesRatio(buf); r < minOnesRatio || r > maxOnesRatio {
		return fmt.Errorf("sample bit balance %.3f outside [%.1f, %.1f]", r, minOnesRatio, maxOnesRatio)
	}
	return nil
}

// HealthCheck reads one sample from r, checks it and records the outcome in h.
func HealthCheck(r io.Reader, h *Health) error {
	buf := make([]byte, healthSampleBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		err = fmt.Errorf("entropy read failed: %w", err)
		h.Set(false, err.Error())
		return err
	}
	if err := CheckSample(buf); err != nil {
		h.Set(false, err.Error())
		return err
	}

	h.mu.Lock()
	h.ok = true
	h.lastErr = ""
	h.lastCheckedAt = time.Now()
	h.lastSample32 = binary.BigEndian.Uint32(buf[len(buf)-4:])
	h.repeatCount32 = 0
	h.mu.Unlock()
	return nil
}

// observe records one periodic 32-bit sample.
func (h *Health) observe(w uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if w == h.lastSample32 {
		h.repeatCount32++
	} else {
		h.repeatCount32 = 0
	}
	h.lastSample32 = w
	h.lastCheckedAt = time.Now()

	if h.repeatCount32 >= maxRepeats32 {
		h.ok = false
		h.lastErr = "source appears stuck (repeating identical 32-bit outputs)"
		return
	}
	h.ok = true
	h.lastErr = ""
}

// PeriodicHealthCheck samples 4 bytes from r every interval until ctx ends.
func PeriodicHealthCheck(ctx context.Context, r io.Reader, h *Health, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	var buf [4]byte
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if _, err := io.ReadFull(r, buf[:]); err != nil {
			h.Set(false, "entropy read failed: "+err.Error())
			continue
		}
		h.observe(binary.BigEndian.Uint32(buf[:]))
	}
}
