package server_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lost-woods/racerandom/src/config"
	"github.com/lost-woods/racerandom/src/rng"
	"github.com/lost-woods/racerandom/src/server"
)

// xorshift32 stands in for a healthy entropy source.
type xorshift32 struct {
	x uint32
}

func (r *xorshift32) Read(p []byte) (int, error) {
	for i := 0; i < len(p); i++ {
		r.x ^= r.x << 13
		r.x ^= r.x >> 17
		r.x ^= r.x << 5
		p[i] = byte(r.x >> 24)
	}
	return len(p), nil
}

func testConfig(port string) config.Config {
	return config.Config{
		Port:            port,
		APIKey:          "secret",
		Source:          config.SourceRace,
		HealthInterval:  time.Hour,
		ShutdownTimeout: time.Second,
	}
}

func newServer(t *testing.T, port string) *server.Server {
	t.Helper()
	r := rng.NewLockedReader(&xorshift32{x: 99})
	h := rng.NewHealth()
	require.NoError(t, rng.HealthCheck(r, h))
	return server.New(testConfig(port), r, h, nil, zap.NewNop().Sugar())
}

func TestServer_Routes(t *testing.T) {
	srv := newServer(t, "0")

	tests := []struct {
		path   string
		key    string
		status int
	}{
		{"/", "secret", http.StatusOK},
		{"/bytes?size=8", "secret", http.StatusOK},
		{"/stream?size=64", "secret", http.StatusOK},
		{"/health", "secret", http.StatusOK},
		{"/bytes", "wrong", http.StatusForbidden},
		{"/missing", "secret", http.StatusNotFound},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("X-API-KEY", tc.key)
		srv.Handler().ServeHTTP(w, req)
		require.Equal(t, tc.status, w.Code, tc.path)
	}
}

func freePort(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	return port
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	port := freePort(t)
	srv := newServer(t, port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		req, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:"+port+"/health", nil)
		req.Header.Set("X-API-KEY", "secret")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
