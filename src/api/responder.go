package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type responder struct{ c *gin.Context }

func (r responder) wantsJSON() bool {
	return strings.Contains(strings.ToLower(r.c.GetHeader("Accept")), "application/json")
}

func (r responder) err(status int, msg string) {
	if r.wantsJSON() {
		r.c.JSON(status, gin.H{"error": msg})
		return
	}
	r.c.String(status, msg)
}

// ok merges request_id into payload for JSON clients and appends it as a
// trailing line for plain text ones.
func (r responder) ok(text string, payload gin.H, requestID string) {
	if !r.wantsJSON() {
		r.c.String(http.StatusOK, text+"\nrequest_id: "+requestID)
		return
	}
	out := make(gin.H, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out["request_id"] = requestID
	r.c.JSON(http.StatusOK, out)
}
