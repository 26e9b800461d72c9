package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lost-woods/racerandom/src/rng"
)

// Emitter reports how many bytes a source has produced.
type Emitter interface {
	Emitted() uint64
}

type Handlers struct {
	r      io.Reader
	health *rng.Health
	stats  Emitter
	log    *zap.SugaredLogger
}

// NewHandlers serves entropy from r, which must be safe for concurrent use
// (see rng.NewLockedReader). stats may be nil.
func NewHandlers(r io.Reader, h *rng.Health, stats Emitter, log *zap.SugaredLogger) *Handlers {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Handlers{r: r, health: h, stats: stats, log: log}
}

func (h *Handlers) rngOK(c *gin.Context) bool {
	if h.health == nil {
		responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: missing health monitor")
		return false
	}

	ok, msg, _ := h.health.Snapshot()
	if ok {
		return true
	}

	responder{c}.err(http.StatusServiceUnavailable, "RNG unhealthy: "+msg)
	return false
}

// requestID draws a v4 UUID from the served stream itself.
func (h *Handlers) requestID() (string, error) {
	id, err := uuid.NewRandomFromReader(h.r)
	if err != nil {
		if h.health != nil {
			h.health.Set(false, "error fetching random bytes for request id: "+err.Error())
		}
		return "", err
	}
	return id.String(), nil
}

/*
handleRNG enforces:
1. RNG health check
2. Outcome computation
3. Error handling
4. Request id drawn only after the outcome, so it never shifts the outcome's bytes
5. JSON vs plaintext response
*/
func (h *Handlers) handleRNG(
	c *gin.Context,
	work func() (text string, payload gin.H, status int, errMsg string),
) {
	if !h.rngOK(c) {
		return
	}

	text, payload, status, errMsg := work()
	if errMsg != "" {
		responder{c}.err(status, errMsg)
		return
	}

	requestID, err := h.requestID()
	if err != nil {
		h.log.Errorw("request id generation failed", "error", err)
		responder{c}.err(http.StatusInternalServerError, "Error generating request id.")
		return
	}

	responder{c}.ok(text, payload, requestID)
}

func CheckHeader(headerName, expectedValue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Auth disabled if not configured
		if expectedValue == "" {
			c.Next()
			return
		}

		if c.GetHeader(headerName) != expectedValue {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
