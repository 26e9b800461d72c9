package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lost-woods/racerandom/src/rng"
)

const (
	maxBytesSize  = 256
	maxStreamSize = 1 << 20
	streamChunk   = 4096
)

func (h *Handlers) RandomBytes(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", "1"))
	if err != nil || size < 1 || size > maxBytesSize {
		responder{c}.err(http.StatusBadRequest,
			fmt.Sprintf("Size must be an integer between 1 and %d.", maxBytesSize))
		return
	}

	h.handleRNG(c, func() (string, gin.H, int, string) {
		buf := make([]byte, size)
		if _, err := io.ReadFull(h.r, buf); err != nil {
			if h.health != nil {
				h.health.Set(false, "error fetching random bytes: "+err.Error())
			}
			h.log.Errorw("read random bytes", "error", err)
			return "", nil, http.StatusInternalServerError, "Error fetching random bytes."
		}

		hex := fmt.Sprintf("%x", buf)
		return hex, gin.H{"bytes": hex, "size": size}, 0, ""
	})
}

func (h *Handlers) RandomNumber(c *gin.Context) {
	min, err := strconv.Atoi(c.DefaultQuery("min", "1"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest, "Invalid min value.")
		return
	}

	max, err := strconv.Atoi(c.DefaultQuery("max", "100"))
	if err != nil {
		responder{c}.err(http.StatusBadRequest, "Invalid max value.")
		return
	}

	h.handleRNG(c, func() (string, gin.H, int, string) {
		n, err := rng.UniformInt32(h.r, h.health, min, max)
		if err != nil {
			return "", nil, http.StatusBadRequest, err.Error()
		}

		return strconv.Itoa(int(n)),
			gin.H{"number": n, "min": min, "max": max},
			0, ""
	})
}

// RandomStream writes size raw bytes as application/octet-stream, flushing
// after every chunk. The request id travels in the X-Request-ID header
// because the body carries no framing.
func (h *Handlers) RandomStream(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", "1024"))
	if err != nil || size < 1 || size > maxStreamSize {
		responder{c}.err(http.StatusBadRequest,
			fmt.Sprintf("Size must be an integer between 1 and %d.", maxStreamSize))
		return
	}

	if !h.rngOK(c) {
		return
	}

	requestID, err := h.requestID()
	if err != nil {
		h.log.Errorw("request id generation failed", "error", err)
		responder{c}.err(http.StatusInternalServerError, "Error generating request id.")
		return
	}

	c.Header("X-Request-ID", requestID)
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Length", strconv.Itoa(size))
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	buf := make([]byte, streamChunk)
	for remaining := size; remaining > 0; {
		if ctx.Err() != nil {
			return
		}

		n := min(remaining, len(buf))
		if _, err := io.ReadFull(h.r, buf[:n]); err != nil {
			if h.health != nil {
				h.health.Set(false, "error fetching random bytes: "+err.Error())
			}
			h.log.Errorw("stream aborted", "error", err, "request_id", requestID)
			return
		}
		if _, err := c.Writer.Write(buf[:n]); err != nil {
			h.log.Debugw("client went away", "error", err, "request_id", requestID)
			return
		}
		c.Writer.Flush()
		remaining -= n
	}
}

func (h *Handlers) Health(c *gin.Context) {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "UNHEALTHY: missing health monitor")
		return
	}

	var emitted uint64
	if h.stats != nil {
		emitted = h.stats.Emitted()
	}

	ok, msg, t := h.health.Snapshot()
	if ok {
		responder{c}.ok(
			fmt.Sprintf("OK (last checked %s, %d bytes emitted)", t.Format(time.RFC3339), emitted),
			gin.H{"ok": true, "last_checked": t.Format(time.RFC3339), "emitted_bytes": emitted},
			"health-check",
		)
		return
	}

	responder{c}.err(http.StatusServiceUnavailable,
		fmt.Sprintf("UNHEALTHY: %s (last checked %s)", msg, t.Format(time.RFC3339)))
}
